package persistence

import (
	"context"

	appordering "github.com/freshmart/backend/internal/application/ordering"
	"github.com/freshmart/backend/internal/domain/catalog"
	"github.com/freshmart/backend/internal/domain/ordering"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of invoice and stock mutations.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormOrderTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormOrderTransactionalRepositories provides access to the order-side repositories within a transaction.
type gormOrderTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormOrderTransactionalRepositories) InvoiceRepo() ordering.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormOrderTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ensure GormOrderTransactionScope implements TransactionScope
var _ appordering.TransactionScope = (*GormOrderTransactionScope)(nil)

// Ensure gormOrderTransactionalRepositories implements TransactionalRepositories
var _ appordering.TransactionalRepositories = (*gormOrderTransactionalRepositories)(nil)
