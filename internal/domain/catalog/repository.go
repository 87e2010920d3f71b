package catalog

import (
	"context"

	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products.
//
// ReserveStock and ReturnStock are the two halves of the stock ledger:
// reservations decrement the available quantity and must be serialized
// against concurrent reservations for the same product (the implementation
// uses a guarded conditional update); returns increment unconditionally.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error

	// ReserveStock atomically decrements quantity_in_stock by quantity.
	// Fails with an INSUFFICIENT_STOCK domain error (carrying the current
	// availability) when fewer than quantity units remain.
	ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// ReturnStock increments quantity_in_stock by quantity. Never fails for
	// business reasons; there is no upper bound against a historical baseline.
	ReturnStock(ctx context.Context, productID uuid.UUID, quantity int) error
}
