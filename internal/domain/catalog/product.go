package catalog

import (
	"strings"

	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a grocery item in the catalog.
// The catalog itself is maintained elsewhere; the order ledger only reads
// product data and moves stock through reservations and returns.
type Product struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null"`
	Brand           string          `gorm:"type:varchar(100);not null"`
	Category        string          `gorm:"type:varchar(100);not null;index"`
	Barcode         string          `gorm:"type:varchar(50);index"`
	Unit            string          `gorm:"type:varchar(20)"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QuantityInStock int             `gorm:"not null;default:0"`
	PictureURL      string          `gorm:"type:varchar(255)"`
	NutritionalInfo string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, brand, category string, price decimal.Decimal, quantityInStock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if brand == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "Product brand cannot be empty")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if quantityInStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Brand:             brand,
		Category:          category,
		Price:             price,
		QuantityInStock:   quantityInStock,
	}, nil
}

// HasStock returns true if at least quantity units are available
func (p *Product) HasStock(quantity int) bool {
	return p.QuantityInStock >= quantity
}

// InsufficientStockError builds the rejection for a reservation that exceeds
// the available quantity, carrying the current availability for the caller.
func (p *Product) InsufficientStockError() *shared.DomainError {
	return shared.NewDomainErrorWithDetails(
		"INSUFFICIENT_STOCK",
		"Not enough stock available",
		map[string]any{"available_stock": p.QuantityInStock},
	)
}
