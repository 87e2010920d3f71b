package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/freshmart/backend/internal/domain/payment"
)

// MockAdapter implements the Provider interface entirely in memory. It is
// used outside production so checkout flows can run without PayPal
// credentials. Orders live in an instance-local map guarded by a mutex;
// two adapters never share state.
type MockAdapter struct {
	mu     sync.Mutex
	orders map[string]mockOrder
}

type mockOrder struct {
	amount   decimal.Decimal
	currency string
}

// NewMockAdapter creates a new in-memory mock adapter
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		orders: make(map[string]mockOrder),
	}
}

// ProviderType returns the provider type
func (a *MockAdapter) ProviderType() payment.ProviderType {
	return payment.ProviderTypeMock
}

// CreateOrder records an order in memory and hands back a fake approval URL
func (a *MockAdapter) CreateOrder(ctx context.Context, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orderID := "MOCK-ORDER-" + randomOrderToken()

	a.mu.Lock()
	a.orders[orderID] = mockOrder{
		amount:   req.Amount.Round(2),
		currency: req.Currency,
	}
	a.mu.Unlock()

	return &payment.CreateOrderResponse{
		ProviderOrderID: orderID,
		Status:          payment.OrderStatusCreated,
		ApproveURL:      "https://mock-paypal.local/checkoutnow?token=" + orderID,
	}, nil
}

// CaptureOrder completes a previously created mock order
func (a *MockAdapter) CaptureOrder(ctx context.Context, providerOrderID string) (*payment.CaptureResult, error) {
	if providerOrderID == "" {
		return nil, payment.ErrPaymentInvalidOrderID
	}

	a.mu.Lock()
	order, ok := a.orders[providerOrderID]
	a.mu.Unlock()

	if !ok {
		return nil, payment.ErrPaymentOrderNotFound
	}

	return &payment.CaptureResult{
		ProviderOrderID: providerOrderID,
		CaptureID:       "MOCK-CAPTURE-" + randomOrderToken(),
		Status:          payment.OrderStatusCompleted,
		Amount:          order.amount,
		Currency:        order.currency,
	}, nil
}

// randomOrderToken generates a short random uppercase hex token
func randomOrderToken() string {
	b := make([]byte, 6)
	rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}

// Ensure MockAdapter implements the Provider interface
var _ payment.Provider = (*MockAdapter)(nil)
