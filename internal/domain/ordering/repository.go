package ordering

import (
	"context"

	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the persistence contract for invoices.
// Implementations load and save the aggregate with its items.
type InvoiceRepository interface {
	// FindByID loads an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByUserID lists a user's invoices, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Invoice, error)

	// CountByUserID counts a user's invoices
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save persists the invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists the invoice with an optimistic version check.
	// Returns ErrConcurrencyConflict when the stored version has moved on.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// DeleteItem removes a persisted line item row
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
