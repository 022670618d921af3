// internal/core/ports/store.go
package ports

import "context"

// Store groups the repositories over one local record store.
// This interface is implemented by the database adapter.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Suppliers() SupplierRepository
	Invoices() InvoiceRepository
	InvoiceLines() InvoiceLineRepository
	Settings() SettingsRepository

	// WithinTx runs fn against a transaction-bound Store. Any error from fn
	// discards every write made through tx.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
