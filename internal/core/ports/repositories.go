// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// ProductRepository is the persistence port for products.
// FindByPartNumber returns nil, nil when no product matches.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) (int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByPartNumber(ctx context.Context, partNumber string) (*domain.Product, error)
	// AdjustStock applies delta only if the result stays non-negative and returns the new stock.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
	// RelinkSupplier rewrites the supplier name on every product that carries oldName.
	RelinkSupplier(ctx context.Context, oldName, newName string) (int64, error)
}

// CustomerRepository resolves names case-insensitively; the lowest id wins.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	FindByName(ctx context.Context, name string) (*domain.Customer, error)
	Insert(ctx context.Context, c *domain.Customer) (int64, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int64) error
}

type SupplierRepository interface {
	GetAll(ctx context.Context) ([]domain.Supplier, error)
	Get(ctx context.Context, id int64) (*domain.Supplier, error)
	FindByName(ctx context.Context, name string) (*domain.Supplier, error)
	Insert(ctx context.Context, s *domain.Supplier) (int64, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// InvoiceRepository has no update or delete path. Invoices are append-only.
type InvoiceRepository interface {
	GetAll(ctx context.Context) ([]domain.Invoice, error)
	Get(ctx context.Context, id int64) (*domain.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	Insert(ctx context.Context, inv *domain.Invoice) (int64, error)
}

type InvoiceLineRepository interface {
	GetAll(ctx context.Context) ([]domain.InvoiceLine, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.InvoiceLine, error)
	Insert(ctx context.Context, line *domain.InvoiceLine) (int64, error)
}

type SettingsRepository interface {
	All(ctx context.Context) (domain.Settings, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
