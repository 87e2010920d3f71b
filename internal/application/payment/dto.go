package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest asks for a new provider checkout order for an invoice
type CreateOrderRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// CreateOrderResponse reports the provider order bound to the invoice
type CreateOrderResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	PayPalOrderID string          `json:"paypal_order_id"`
	ApproveURL    string          `json:"approve_url,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentStatus string          `json:"payment_status"`
}

// CaptureOrderRequest asks to capture the provider order bound to an
// invoice. OrderID overrides the stored order ID when set; callers that
// only hold the invoice ID can omit it.
type CaptureOrderRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
	OrderID   string    `json:"order_id,omitempty"`
}

// CaptureOrderResponse reports the invoice state after a capture attempt
type CaptureOrderResponse struct {
	InvoiceID       uuid.UUID  `json:"invoice_id"`
	PayPalOrderID   string     `json:"paypal_order_id"`
	PayPalCaptureID *string    `json:"paypal_capture_id,omitempty"`
	PaymentStatus   string     `json:"payment_status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}
