package ordering

import (
	"context"

	"github.com/freshmart/backend/internal/domain/ordering"
	"github.com/freshmart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceService handles invoice business operations. Every item mutation
// runs inside a transaction scope so the invoice save and the stock movement
// commit or roll back together.
type InvoiceService struct {
	invoiceRepo ordering.InvoiceRepository
	txScope     TransactionScope
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo ordering.InvoiceRepository, txScope TransactionScope) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
	}
}

// Create creates a new invoice for the user, reserving stock for any
// initial items. If any line cannot be satisfied the whole creation rolls
// back and no stock moves.
func (s *InvoiceService) Create(ctx context.Context, userID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := ordering.NewInvoice(userID, req.PaymentMethod, ordering.DeliveryDetails{
		FullName:  req.Delivery.FullName,
		Email:     req.Delivery.Email,
		Phone:     req.Delivery.Phone,
		Address:   req.Delivery.Address,
		Apartment: req.Delivery.Apartment,
		City:      req.Delivery.City,
		State:     req.Delivery.State,
		ZipCode:   req.Delivery.ZipCode,
		Notes:     req.Delivery.Notes,
	})
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range req.Items {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if err := repos.ProductRepo().ReserveStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
			if _, err := invoice.AddItem(product.ID, line.Quantity, product.Price); err != nil {
				return err
			}
		}
		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice owned by the user
func (s *InvoiceService) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findOwned(ctx, s.invoiceRepo, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves the user's invoices with pagination, newest first
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}

	invoices, err := s.invoiceRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceListItemResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = ToInvoiceListItemResponse(invoice)
	}
	return responses, total, nil
}

// AddItem adds a line item to the invoice, reserving stock for it. The unit
// price is snapshotted from the product's current price.
func (s *InvoiceService) AddItem(ctx context.Context, userID, invoiceID uuid.UUID, req AddInvoiceItemRequest) (*InvoiceResponse, error) {
	var invoice *ordering.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = s.findOwned(ctx, repos.InvoiceRepo(), userID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.CanModifyItems() {
			return shared.NewDomainError("INVALID_STATE", "Cannot add items to a paid invoice")
		}

		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().ReserveStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}
		if _, err := invoice.AddItem(product.ID, req.Quantity, product.Price); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateItemQuantity changes a line item's quantity, moving only the stock
// delta: an increase reserves the extra units, a decrease returns them.
func (s *InvoiceService) UpdateItemQuantity(ctx context.Context, userID, invoiceID, itemID uuid.UUID, req UpdateInvoiceItemRequest) (*InvoiceResponse, error) {
	var invoice *ordering.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = s.findOwned(ctx, repos.InvoiceRepo(), userID, invoiceID)
		if err != nil {
			return err
		}

		item := invoice.GetItem(itemID)
		if item == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice item not found")
		}
		productID := item.ProductID

		delta, err := invoice.UpdateItemQuantity(itemID, req.Quantity)
		if err != nil {
			return err
		}

		switch {
		case delta > 0:
			if err := repos.ProductRepo().ReserveStock(ctx, productID, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := repos.ProductRepo().ReturnStock(ctx, productID, -delta); err != nil {
				return err
			}
		}

		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RemoveItem deletes a line item and returns its full quantity to stock
func (s *InvoiceService) RemoveItem(ctx context.Context, userID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *ordering.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = s.findOwned(ctx, repos.InvoiceRepo(), userID, invoiceID)
		if err != nil {
			return err
		}

		removed, err := invoice.RemoveItem(itemID)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().ReturnStock(ctx, removed.ProductID, removed.Quantity); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteItem(ctx, removed.ID); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// findOwned loads an invoice and enforces ownership. A foreign invoice is
// reported as forbidden, not as missing: the row exists, the caller just
// may not touch it.
func (s *InvoiceService) findOwned(ctx context.Context, repo ordering.InvoiceRepository, userID, invoiceID uuid.UUID) (*ordering.Invoice, error) {
	invoice, err := repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}
	return invoice, nil
}
