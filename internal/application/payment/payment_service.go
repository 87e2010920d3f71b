package payment

import (
	"context"

	"github.com/freshmart/backend/internal/domain/ordering"
	"github.com/freshmart/backend/internal/domain/payment"
	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/freshmart/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService reconciles provider checkout orders with invoices. It is
// the only writer of an invoice's payment status.
type PaymentService struct {
	invoiceRepo ordering.InvoiceRepository
	provider    payment.Provider
	currency    valueobject.Currency
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(invoiceRepo ordering.InvoiceRepository, provider payment.Provider, currency string, logger *zap.Logger) *PaymentService {
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		provider:    provider,
		currency:    valueobject.Currency(currency),
		logger:      logger,
	}
}

// CreateOrder registers a provider checkout order for the invoice's current
// total and moves the invoice to pending. On a provider failure the invoice
// is left untouched so the caller can simply retry.
func (s *PaymentService) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	invoice, err := s.findOwned(ctx, userID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsPaid() {
		return nil, shared.NewDomainError("ALREADY_PAID", "Invoice is already paid")
	}
	if !invoice.TotalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice total must be greater than 0")
	}

	amount := invoice.TotalAmount.Round(2)
	resp, err := s.provider.CreateOrder(ctx, &payment.CreateOrderRequest{
		InvoiceID: invoice.ID,
		Amount:    amount,
		Currency:  string(s.currency),
	})
	if err != nil {
		s.logger.Warn("provider order creation failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment provider rejected order creation")
	}

	if err := invoice.BeginPayment("paypal", resp.ProviderOrderID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("provider order created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("paypal_order_id", resp.ProviderOrderID))

	return &CreateOrderResponse{
		InvoiceID:     invoice.ID,
		PayPalOrderID: resp.ProviderOrderID,
		ApproveURL:    resp.ApproveURL,
		Amount:        amount,
		Currency:      string(s.currency),
		PaymentStatus: invoice.PaymentStatus.String(),
	}, nil
}

// CaptureOrder captures the provider order and marks the invoice paid.
// Capturing an already-paid invoice is an idempotent success. Every other
// capture failure is recorded durably as a failed payment before the error
// is reported, so the stored state reflects what actually happened.
func (s *PaymentService) CaptureOrder(ctx context.Context, userID uuid.UUID, req CaptureOrderRequest) (*CaptureOrderResponse, error) {
	invoice, err := s.findOwned(ctx, userID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.IsPaid() {
		return s.toCaptureResponse(invoice), nil
	}

	orderID := req.OrderID
	if orderID == "" && invoice.PayPalOrderID != nil {
		orderID = *invoice.PayPalOrderID
	}
	if orderID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "No provider order is associated with this invoice")
	}

	result, err := s.provider.CaptureOrder(ctx, orderID)
	if err != nil {
		s.markFailed(ctx, invoice, "capture call failed", err)
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment provider capture failed")
	}

	if !result.Status.IsCompleted() {
		s.markFailed(ctx, invoice, "capture not completed", nil)
		return nil, shared.NewDomainErrorWithDetails("PAYMENT_NOT_COMPLETED",
			"Provider order was not completed",
			map[string]any{"provider_status": result.Status.String()})
	}

	expected, _ := valueobject.NewMoney(invoice.TotalAmount, s.currency)
	captured, _ := valueobject.NewMoney(result.Amount, s.currency)
	if result.Currency != string(s.currency) || !expected.EqualsAtCents(captured) {
		s.markFailed(ctx, invoice, "captured amount mismatch", nil)
		return nil, shared.NewDomainErrorWithDetails("AMOUNT_MISMATCH",
			"Captured amount does not match invoice total",
			map[string]any{
				"expected": expected.StringFixed(),
				"captured": captured.StringFixed(),
				"currency": result.Currency,
			})
	}

	if err := invoice.MarkPaid(result.ProviderOrderID, result.CaptureID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("payment captured",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("paypal_order_id", result.ProviderOrderID),
		zap.String("paypal_capture_id", result.CaptureID))

	return s.toCaptureResponse(invoice), nil
}

// markFailed durably records a failed capture attempt. Persistence errors
// here are logged, not returned: the caller already has a more specific
// error to report.
func (s *PaymentService) markFailed(ctx context.Context, invoice *ordering.Invoice, reason string, cause error) {
	invoice.MarkFailed()
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		s.logger.Error("failed to persist failed payment status",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
		return
	}
	s.logger.Warn("payment capture failed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("reason", reason),
		zap.Error(cause))
}

func (s *PaymentService) toCaptureResponse(invoice *ordering.Invoice) *CaptureOrderResponse {
	resp := &CaptureOrderResponse{
		InvoiceID:       invoice.ID,
		PaymentStatus:   invoice.PaymentStatus.String(),
		PayPalCaptureID: invoice.PayPalCaptureID,
		PaidAt:          invoice.PaidAt,
	}
	if invoice.PayPalOrderID != nil {
		resp.PayPalOrderID = *invoice.PayPalOrderID
	}
	return resp
}

func (s *PaymentService) findOwned(ctx context.Context, userID, invoiceID uuid.UUID) (*ordering.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}
	return invoice, nil
}
