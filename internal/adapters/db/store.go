// internal/adapters/db/store.go
package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/ammerola/partsdesk/internal/core/ports"
)

// Store implements ports.Store over one SQLite database. A Store returned to
// a WithinTx callback is bound to that transaction.
type Store struct {
	db     *Database
	q      querier
	inTx   bool
	logger *slog.Logger
}

var _ ports.Store = (*Store)(nil)

// NewStore creates the repository set for database
func NewStore(database *Database, logger *slog.Logger) *Store {
	return &Store{
		db:     database,
		q:      database.wrap(database.db),
		logger: logger.With(slog.String("component", "store")),
	}
}

func (s *Store) Products() ports.ProductRepository {
	return newProductRepository(s.q, s.logger)
}

func (s *Store) Customers() ports.CustomerRepository {
	return newCustomerRepository(s.q, s.logger)
}

func (s *Store) Suppliers() ports.SupplierRepository {
	return newSupplierRepository(s.q, s.logger)
}

func (s *Store) Invoices() ports.InvoiceRepository {
	return newInvoiceRepository(s.q, s.logger)
}

func (s *Store) InvoiceLines() ports.InvoiceLineRepository {
	return newInvoiceLineRepository(s.q, s.logger)
}

func (s *Store) Settings() ports.SettingsRepository {
	return newSettingsRepository(s.q, s.logger)
}

// WithinTx runs fn in a transaction. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return fn(&Store{
			db:     s.db,
			q:      s.db.wrap(tx),
			inTx:   true,
			logger: s.logger,
		})
	})
}
