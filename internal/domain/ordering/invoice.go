package ordering

import (
	"strings"
	"time"

	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of an invoice
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// A failed payment may be retried back to pending via a new provider order;
// paid is terminal.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusUnpaid:
		return target == PaymentStatusPending
	case PaymentStatusPending:
		return target == PaymentStatusPaid || target == PaymentStatusFailed || target == PaymentStatusPending
	case PaymentStatusFailed:
		return target == PaymentStatusPending || target == PaymentStatusFailed
	case PaymentStatusPaid:
		return false
	}
	return false
}

// DeliveryDetails is the delivery snapshot captured once at invoice creation.
// It is immutable afterwards: later changes to the user's profile must not
// rewrite where an order was sent.
type DeliveryDetails struct {
	FullName  string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(120);not null"`
	Phone     string `gorm:"type:varchar(20);not null"`
	Address   string `gorm:"type:varchar(255);not null"`
	Apartment string `gorm:"type:varchar(50)"`
	City      string `gorm:"type:varchar(100);not null"`
	State     string `gorm:"type:varchar(100)"`
	ZipCode   string `gorm:"type:varchar(20);not null"`
	Notes     string `gorm:"type:varchar(500)"`
}

func (d DeliveryDetails) validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return shared.NewDomainError("INVALID_DELIVERY", "Delivery full name is required")
	}
	if strings.TrimSpace(d.Address) == "" {
		return shared.NewDomainError("INVALID_DELIVERY", "Delivery address is required")
	}
	if strings.TrimSpace(d.City) == "" {
		return shared.NewDomainError("INVALID_DELIVERY", "Delivery city is required")
	}
	if strings.TrimSpace(d.ZipCode) == "" {
		return shared.NewDomainError("INVALID_DELIVERY", "Delivery zip code is required")
	}
	return nil
}

// Invoice represents an order aggregate owned by one user.
// Its total always equals the decimal sum of its items' quantity x unit price.
type Invoice struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Delivery        DeliveryDetails `gorm:"embedded;embeddedPrefix:delivery_"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PayPalOrderID   *string         `gorm:"column:paypal_order_id;type:varchar(128);uniqueIndex"`
	PayPalCaptureID *string         `gorm:"column:paypal_capture_id;type:varchar(128);uniqueIndex"`
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice with a zero total and unpaid status
func NewInvoice(userID uuid.UUID, paymentMethod string, delivery DeliveryDetails) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if err := delivery.validate(); err != nil {
		return nil, err
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]InvoiceItem, 0),
		TotalAmount:       decimal.Zero,
		Delivery:          delivery,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentStatusUnpaid,
	}, nil
}

// IsOwnedBy returns true if the invoice belongs to the given user
func (i *Invoice) IsOwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.PaymentStatus == PaymentStatusPaid
}

// CanModifyItems returns true if line items may still change.
// A paid invoice is immutable.
func (i *Invoice) CanModifyItems() bool {
	return !i.IsPaid()
}

// AddItem appends a line item with the unit price snapshotted from the
// product's current price, and brings the total back in line with the items.
func (i *Invoice) AddItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if !i.CanModifyItems() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a paid invoice")
	}

	item, err := NewInvoiceItem(i.ID, productID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	i.Items = append(i.Items, *item)
	i.recalculateTotal()
	i.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity changes the quantity of an existing item, keeping the
// snapshotted unit price, and returns the applied quantity delta
// (new - old; negative means stock flows back).
func (i *Invoice) UpdateItemQuantity(itemID uuid.UUID, quantity int) (int, error) {
	if !i.CanModifyItems() {
		return 0, shared.NewDomainError("INVALID_STATE", "Cannot update items of a paid invoice")
	}

	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			oldQuantity := i.Items[idx].Quantity
			if err := i.Items[idx].UpdateQuantity(quantity); err != nil {
				return 0, err
			}
			i.recalculateTotal()
			i.UpdatedAt = time.Now()
			return quantity - oldQuantity, nil
		}
	}

	return 0, shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// RemoveItem deletes a line item and returns the removed item so the caller
// can release its stock reservation.
func (i *Invoice) RemoveItem(itemID uuid.UUID) (*InvoiceItem, error) {
	if !i.CanModifyItems() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot remove items from a paid invoice")
	}

	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			removed := i.Items[idx]
			i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
			i.recalculateTotal()
			i.UpdatedAt = time.Now()
			return &removed, nil
		}
	}

	return nil, shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// GetItem returns an item by its ID
func (i *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return &i.Items[idx]
		}
	}
	return nil
}

// BeginPayment records a freshly created provider order and moves the
// invoice to pending. Allowed from unpaid, failed (retry), and pending
// (re-created order supersedes the previous one).
func (i *Invoice) BeginPayment(method, providerOrderID string) error {
	if i.IsPaid() {
		return shared.NewDomainError("ALREADY_PAID", "Invoice is already paid")
	}
	if !i.TotalAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Invoice total must be greater than 0")
	}
	if providerOrderID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Provider order ID cannot be empty")
	}

	i.PaymentMethod = method
	i.PaymentStatus = PaymentStatusPending
	i.PayPalOrderID = &providerOrderID
	i.UpdatedAt = time.Now()

	return nil
}

// MarkPaid finalizes the payment, recording the provider identifiers and the
// paid timestamp exactly once. Paid is terminal.
func (i *Invoice) MarkPaid(providerOrderID, captureID string) error {
	if !i.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot transition to paid from "+i.PaymentStatus.String())
	}

	now := time.Now()
	i.PaymentStatus = PaymentStatusPaid
	i.PayPalOrderID = &providerOrderID
	i.PayPalCaptureID = &captureID
	i.PaidAt = &now
	i.UpdatedAt = now

	return nil
}

// MarkFailed records a failed capture attempt. The failure is durable state,
// not a transient report: a later create-order call may retry from here.
func (i *Invoice) MarkFailed() {
	if i.IsPaid() {
		return
	}
	i.PaymentStatus = PaymentStatusFailed
	i.UpdatedAt = time.Now()
}

// ItemCount returns the number of line items
func (i *Invoice) ItemCount() int {
	return len(i.Items)
}

// recalculateTotal brings the maintained total back to the decimal sum of
// the current items, floored at zero.
func (i *Invoice) recalculateTotal() {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.LineTotal())
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	i.TotalAmount = total
}
