package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Provider Errors
// ---------------------------------------------------------------------------

var (
	// Order creation errors
	ErrPaymentInvalidInvoiceID = errors.New("payment: invalid invoice ID")
	ErrPaymentInvalidAmount    = errors.New("payment: invalid payment amount")
	ErrPaymentInvalidCurrency  = errors.New("payment: invalid payment currency")

	// Capture errors
	ErrPaymentInvalidOrderID = errors.New("payment: invalid provider order ID")
	ErrPaymentOrderNotFound  = errors.New("payment: provider order not found")
	ErrPaymentNotCompleted   = errors.New("payment: provider order not completed")

	// Provider transport errors
	ErrProviderNotConfigured   = errors.New("payment: provider not configured")
	ErrProviderRequestFailed   = errors.New("payment: provider request failed")
	ErrProviderInvalidResponse = errors.New("payment: invalid provider response")
	ErrProviderAuthFailed      = errors.New("payment: provider authentication failed")
)

// ProviderType identifies a payment provider implementation
type ProviderType string

const (
	// ProviderTypePayPal is the live PayPal REST checkout provider
	ProviderTypePayPal ProviderType = "PAYPAL"
	// ProviderTypeMock is the in-memory provider used outside production
	ProviderTypeMock ProviderType = "MOCK"
)

// IsValid returns true if the provider type is valid
func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderTypePayPal, ProviderTypeMock:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProviderType
func (t ProviderType) String() string {
	return string(t)
}

// OrderStatus is the provider-side state of a checkout order
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusVoided    OrderStatus = "VOIDED"
	OrderStatusDeclined  OrderStatus = "DECLINED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsCompleted returns true if the order was captured successfully.
// Only COMPLETED counts: APPROVED means the buyer consented but no money
// moved, and nothing downstream may treat it as payment.
func (s OrderStatus) IsCompleted() bool {
	return s == OrderStatusCompleted
}

// CreateOrderRequest asks the provider for a new checkout order
type CreateOrderRequest struct {
	// InvoiceID is our internal invoice the order pays for
	InvoiceID uuid.UUID
	// Amount is the total to charge
	Amount decimal.Decimal
	// Currency is the ISO 4217 currency code
	Currency string
}

// Validate validates the create order request
func (r *CreateOrderRequest) Validate() error {
	if r.InvoiceID == uuid.Nil {
		return ErrPaymentInvalidInvoiceID
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentInvalidAmount
	}
	if len(r.Currency) != 3 {
		return ErrPaymentInvalidCurrency
	}
	return nil
}

// CreateOrderResponse is the provider's answer to order creation
type CreateOrderResponse struct {
	// ProviderOrderID is the order ID assigned by the provider
	ProviderOrderID string
	// Status is the initial order status (normally CREATED)
	Status OrderStatus
	// ApproveURL is where the buyer approves the payment
	ApproveURL string
	// RawResponse is the original provider response body
	RawResponse string
}

// CaptureResult is the provider's answer to a capture attempt
type CaptureResult struct {
	// ProviderOrderID is the captured order's ID
	ProviderOrderID string
	// CaptureID identifies the capture transaction inside the order
	CaptureID string
	// Status is the order status after the capture attempt
	Status OrderStatus
	// Amount is the captured amount as reported by the provider
	Amount decimal.Decimal
	// Currency is the captured amount's currency code
	Currency string
	// RawResponse is the original provider response body
	RawResponse string
}

// Provider is the checkout provider port. Implementations talk to an
// external processor (or simulate one) and never touch our persistence.
type Provider interface {
	// ProviderType identifies the implementation
	ProviderType() ProviderType

	// CreateOrder registers a checkout order for the given amount
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)

	// CaptureOrder captures an approved order. A non-nil CaptureResult with a
	// non-completed Status means the provider answered but the money did not
	// move; a nil result with an error means the call itself failed.
	CaptureOrder(ctx context.Context, providerOrderID string) (*CaptureResult, error)
}
