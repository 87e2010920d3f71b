package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshmart/backend/internal/domain/ordering"
	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Invoice, error) {
	var invoice ordering.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByUserID lists a user's invoices with pagination
func (r *GormInvoiceRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*ordering.Invoice, error) {
	var invoices []*ordering.Invoice

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountByUserID counts a user's invoices
func (r *GormInvoiceRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ordering.Invoice{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ordering.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}
		return r.syncItems(tx, invoice)
	})
}

// SaveWithLock persists the invoice with an optimistic version check
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *ordering.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		versionQuery := tx.Model(&ordering.Invoice{}).
			Where("id = ?", invoice.ID).
			Select("version").
			Scan(&currentVersion)
		if versionQuery.Error != nil {
			return versionQuery.Error
		}
		// Scan never reports ErrRecordNotFound; a missing row shows up
		// as zero scanned rows.
		if versionQuery.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != invoice.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		invoice.Version++
		invoice.UpdatedAt = time.Now()

		result := tx.Model(&ordering.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"total_amount":      invoice.TotalAmount,
				"payment_method":    invoice.PaymentMethod,
				"payment_status":    invoice.PaymentStatus,
				"paypal_order_id":   invoice.PayPalOrderID,
				"paypal_capture_id": invoice.PayPalCaptureID,
				"paid_at":           invoice.PaidAt,
				"version":           invoice.Version,
				"updated_at":        invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		return r.syncItems(tx, invoice)
	})
}

// DeleteItem removes a persisted line item row
func (r *GormInvoiceRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&ordering.InvoiceItem{}, "id = ?", itemID).Error
}

// syncItems reconciles the stored item rows with the aggregate's items:
// rows the aggregate no longer holds are deleted, the rest upserted.
func (r *GormInvoiceRepository) syncItems(tx *gorm.DB, invoice *ordering.Invoice) error {
	currentItemIDs := make([]uuid.UUID, len(invoice.Items))
	for i, item := range invoice.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentItemIDs).
			Delete(&ordering.InvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&ordering.InvoiceItem{}).Error; err != nil {
			return err
		}
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		if err := tx.Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ ordering.InvoiceRepository = (*GormInvoiceRepository)(nil)
