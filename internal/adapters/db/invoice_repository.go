// internal/adapters/db/invoice_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

var invoiceSchema = schema[domain.Invoice]{
	table:   "invoices",
	columns: []string{"number", "date", "customer_id", "total"},
	values: func(i *domain.Invoice) []interface{} {
		return []interface{}{i.Number, i.Date, nullableInt64(i.CustomerID), i.Total.String()}
	},
	scan: func(s scanner) (*domain.Invoice, error) {
		var i domain.Invoice
		var customer sql.NullInt64
		if err := s.Scan(&i.ID, &i.Number, &i.Date, &customer, &i.Total); err != nil {
			return nil, err
		}
		i.CustomerID = int64Ptr(customer)
		return &i, nil
	},
	id:    func(i *domain.Invoice) int64 { return i.ID },
	setID: func(i *domain.Invoice, id int64) { i.ID = id },
	lookups: map[string]lookupField[domain.Invoice]{
		"number": {
			column: "number",
			index:  "idx_invoices_number",
			value:  func(i *domain.Invoice) string { return i.Number },
		},
	},
}

var invoiceLineSchema = schema[domain.InvoiceLine]{
	table:   "invoice_items",
	columns: []string{"invoice_id", "product_id", "part_number", "name", "qty", "price"},
	values: func(l *domain.InvoiceLine) []interface{} {
		return []interface{}{l.InvoiceID, nullableInt64(l.ProductID), l.PartNumber, l.Name, l.Qty, l.Price.String()}
	},
	scan: func(s scanner) (*domain.InvoiceLine, error) {
		var l domain.InvoiceLine
		var product sql.NullInt64
		if err := s.Scan(&l.ID, &l.InvoiceID, &product, &l.PartNumber, &l.Name, &l.Qty, &l.Price); err != nil {
			return nil, err
		}
		l.ProductID = int64Ptr(product)
		return &l, nil
	},
	id:    func(l *domain.InvoiceLine) int64 { return l.ID },
	setID: func(l *domain.InvoiceLine, id int64) { l.ID = id },
}

// invoiceRepository exposes only the append path of the collection
type invoiceRepository struct {
	c *Collection[domain.Invoice]
}

var _ ports.InvoiceRepository = (*invoiceRepository)(nil)

func newInvoiceRepository(q querier, logger *slog.Logger) *invoiceRepository {
	return &invoiceRepository{
		c: newCollection(q, invoiceSchema, logger.With(slog.String("repository", "invoices"))),
	}
}

func (r *invoiceRepository) GetAll(ctx context.Context) ([]domain.Invoice, error) {
	return r.c.GetAll(ctx)
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	return r.c.Get(ctx, id)
}

func (r *invoiceRepository) Insert(ctx context.Context, inv *domain.Invoice) (int64, error) {
	return r.c.Insert(ctx, inv)
}

// FindByNumber returns the first invoice carrying number, or nil
func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.c.FindByUniqueField(ctx, "number", number)
}

type invoiceLineRepository struct {
	c *Collection[domain.InvoiceLine]
}

var _ ports.InvoiceLineRepository = (*invoiceLineRepository)(nil)

func newInvoiceLineRepository(q querier, logger *slog.Logger) *invoiceLineRepository {
	return &invoiceLineRepository{
		c: newCollection(q, invoiceLineSchema, logger.With(slog.String("repository", "invoice_items"))),
	}
}

func (r *invoiceLineRepository) GetAll(ctx context.Context) ([]domain.InvoiceLine, error) {
	return r.c.GetAll(ctx)
}

func (r *invoiceLineRepository) Insert(ctx context.Context, line *domain.InvoiceLine) (int64, error) {
	return r.c.Insert(ctx, line)
}

// ListByInvoice joins lines to their header by invoice id
func (r *invoiceLineRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.InvoiceLine, error) {
	query, args, err := squirrel.Select(invoiceLineSchema.selectColumns()...).
		From(invoiceLineSchema.table).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.c.queryAll(ctx, "select invoice_items", query, args...)
}
