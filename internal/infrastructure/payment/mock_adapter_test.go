package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmart/backend/internal/domain/payment"
)

func TestMockAdapter_CreateOrder(t *testing.T) {
	t.Run("creates order with approval URL", func(t *testing.T) {
		adapter := NewMockAdapter()

		resp, err := adapter.CreateOrder(context.Background(), &payment.CreateOrderRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.RequireFromString("25.505"),
			Currency:  "USD",
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.ProviderOrderID, "MOCK-ORDER-"))
		assert.Equal(t, payment.OrderStatusCreated, resp.Status)
		assert.Contains(t, resp.ApproveURL, resp.ProviderOrderID)
	})

	t.Run("rejects invalid request", func(t *testing.T) {
		adapter := NewMockAdapter()

		_, err := adapter.CreateOrder(context.Background(), &payment.CreateOrderRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.Zero,
			Currency:  "USD",
		})

		assert.ErrorIs(t, err, payment.ErrPaymentInvalidAmount)
	})

	t.Run("issues distinct order IDs", func(t *testing.T) {
		adapter := NewMockAdapter()
		req := &payment.CreateOrderRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		}

		first, err := adapter.CreateOrder(context.Background(), req)
		require.NoError(t, err)
		second, err := adapter.CreateOrder(context.Background(), req)
		require.NoError(t, err)

		assert.NotEqual(t, first.ProviderOrderID, second.ProviderOrderID)
	})
}

func TestMockAdapter_CaptureOrder(t *testing.T) {
	t.Run("captures a created order with the rounded amount", func(t *testing.T) {
		adapter := NewMockAdapter()

		created, err := adapter.CreateOrder(context.Background(), &payment.CreateOrderRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.RequireFromString("25.505"),
			Currency:  "USD",
		})
		require.NoError(t, err)

		result, err := adapter.CaptureOrder(context.Background(), created.ProviderOrderID)

		require.NoError(t, err)
		assert.Equal(t, created.ProviderOrderID, result.ProviderOrderID)
		assert.True(t, strings.HasPrefix(result.CaptureID, "MOCK-CAPTURE-"))
		assert.True(t, result.Status.IsCompleted())
		assert.True(t, result.Amount.Equal(decimal.RequireFromString("25.50")))
		assert.Equal(t, "USD", result.Currency)
	})

	t.Run("unknown order returns not found", func(t *testing.T) {
		adapter := NewMockAdapter()

		result, err := adapter.CaptureOrder(context.Background(), "MOCK-ORDER-UNKNOWN")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, payment.ErrPaymentOrderNotFound)
	})

	t.Run("rejects empty order ID", func(t *testing.T) {
		adapter := NewMockAdapter()

		_, err := adapter.CaptureOrder(context.Background(), "")

		assert.ErrorIs(t, err, payment.ErrPaymentInvalidOrderID)
	})

	t.Run("adapters do not share orders", func(t *testing.T) {
		first := NewMockAdapter()
		second := NewMockAdapter()

		created, err := first.CreateOrder(context.Background(), &payment.CreateOrderRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		})
		require.NoError(t, err)

		_, err = second.CaptureOrder(context.Background(), created.ProviderOrderID)

		assert.ErrorIs(t, err, payment.ErrPaymentOrderNotFound)
	})
}

func TestMockAdapter_ProviderType(t *testing.T) {
	assert.Equal(t, payment.ProviderTypeMock, NewMockAdapter().ProviderType())
}
