package ordering

import (
	"time"

	"github.com/freshmart/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// DeliveryDetailsInput is the delivery snapshot supplied at invoice creation
type DeliveryDetailsInput struct {
	FullName  string `json:"full_name" binding:"required,min=1,max=200"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=3,max=20"`
	Address   string `json:"address" binding:"required,min=1,max=255"`
	Apartment string `json:"apartment" binding:"max=50"`
	City      string `json:"city" binding:"required,min=1,max=100"`
	State     string `json:"state" binding:"max=100"`
	ZipCode   string `json:"zip_code" binding:"required,min=1,max=20"`
	Notes     string `json:"notes" binding:"max=500"`
}

// CreateInvoiceItemInput represents one line in the create invoice request
type CreateInvoiceItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	PaymentMethod string                   `json:"payment_method" binding:"required,oneof=cash paypal"`
	Delivery      DeliveryDetailsInput     `json:"delivery" binding:"required"`
	Items         []CreateInvoiceItemInput `json:"items"`
}

// AddInvoiceItemRequest represents a request to add an item to an invoice
type AddInvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateInvoiceItemRequest represents a request to change an item's quantity
type UpdateInvoiceItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents an invoice line item in responses
type InvoiceItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DeliveryDetailsResponse represents the delivery snapshot in responses
type DeliveryDetailsResponse struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code"`
	Notes     string `json:"notes,omitempty"`
}

// InvoiceResponse represents an invoice with full detail
type InvoiceResponse struct {
	ID              uuid.UUID               `json:"id"`
	UserID          uuid.UUID               `json:"user_id"`
	Items           []InvoiceItemResponse   `json:"items"`
	ItemCount       int                     `json:"item_count"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	Delivery        DeliveryDetailsResponse `json:"delivery"`
	PaymentMethod   string                  `json:"payment_method"`
	PaymentStatus   string                  `json:"payment_status"`
	PayPalOrderID   *string                 `json:"paypal_order_id,omitempty"`
	PayPalCaptureID *string                 `json:"paypal_capture_id,omitempty"`
	PaidAt          *time.Time              `json:"paid_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Version         int                     `json:"version"`
}

// InvoiceListItemResponse represents an invoice in list responses (less detail)
type InvoiceListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceItemResponse converts a domain InvoiceItem to a response DTO
func ToInvoiceItemResponse(item *ordering.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.LineTotal(),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToInvoiceResponse converts a domain Invoice to a response DTO
func ToInvoiceResponse(invoice *ordering.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(invoice.Items))
	for i := range invoice.Items {
		items[i] = ToInvoiceItemResponse(&invoice.Items[i])
	}

	return InvoiceResponse{
		ID:          invoice.ID,
		UserID:      invoice.UserID,
		Items:       items,
		ItemCount:   invoice.ItemCount(),
		TotalAmount: invoice.TotalAmount,
		Delivery: DeliveryDetailsResponse{
			FullName:  invoice.Delivery.FullName,
			Email:     invoice.Delivery.Email,
			Phone:     invoice.Delivery.Phone,
			Address:   invoice.Delivery.Address,
			Apartment: invoice.Delivery.Apartment,
			City:      invoice.Delivery.City,
			State:     invoice.Delivery.State,
			ZipCode:   invoice.Delivery.ZipCode,
			Notes:     invoice.Delivery.Notes,
		},
		PaymentMethod:   invoice.PaymentMethod,
		PaymentStatus:   invoice.PaymentStatus.String(),
		PayPalOrderID:   invoice.PayPalOrderID,
		PayPalCaptureID: invoice.PayPalCaptureID,
		PaidAt:          invoice.PaidAt,
		CreatedAt:       invoice.CreatedAt,
		UpdatedAt:       invoice.UpdatedAt,
		Version:         invoice.Version,
	}
}

// ToInvoiceListItemResponse converts a domain Invoice to a list response DTO
func ToInvoiceListItemResponse(invoice *ordering.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:            invoice.ID,
		ItemCount:     invoice.ItemCount(),
		TotalAmount:   invoice.TotalAmount,
		PaymentMethod: invoice.PaymentMethod,
		PaymentStatus: invoice.PaymentStatus.String(),
		PaidAt:        invoice.PaidAt,
		CreatedAt:     invoice.CreatedAt,
	}
}
