// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// FieldPartNumber is the unique lookup key for products.
const FieldPartNumber = "partNumber"

var productSchema = schema[domain.Product]{
	table: "products",
	columns: []string{
		"part_number", "name", "supplier", "cost", "price", "stock", "low_threshold", "notes",
	},
	values: func(p *domain.Product) []interface{} {
		return []interface{}{
			p.PartNumber, p.Name, p.Supplier, p.Cost.String(), p.Price.String(),
			p.Stock, nullableInt(p.LowThreshold), p.Notes,
		}
	},
	scan: func(s scanner) (*domain.Product, error) {
		var p domain.Product
		var low sql.NullInt64
		if err := s.Scan(&p.ID, &p.PartNumber, &p.Name, &p.Supplier, &p.Cost, &p.Price,
			&p.Stock, &low, &p.Notes); err != nil {
			return nil, err
		}
		p.LowThreshold = intPtr(low)
		return &p, nil
	},
	id:    func(p *domain.Product) int64 { return p.ID },
	setID: func(p *domain.Product, id int64) { p.ID = id },
	lookups: map[string]lookupField[domain.Product]{
		FieldPartNumber: {
			column: "part_number",
			index:  "idx_products_part_number",
			value:  func(p *domain.Product) string { return p.PartNumber },
		},
	},
}

// productRepository implements ports.ProductRepository
type productRepository struct {
	*Collection[domain.Product]
	q      querier
	logger *slog.Logger
}

var _ ports.ProductRepository = (*productRepository)(nil)

func newProductRepository(q querier, logger *slog.Logger) *productRepository {
	logger = logger.With(slog.String("repository", "products"))
	return &productRepository{
		Collection: newCollection(q, productSchema, logger),
		q:          q,
		logger:     logger,
	}
}

// FindByPartNumber looks a product up case-insensitively
func (r *productRepository) FindByPartNumber(ctx context.Context, partNumber string) (*domain.Product, error) {
	return r.FindByUniqueField(ctx, FieldPartNumber, partNumber)
}

// AdjustStock applies delta in a single conditional statement so a concurrent
// writer can never push stock below zero.
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	query, args, err := squirrel.Update("products").
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("stock + ? >= 0", delta)).
		Suffix("RETURNING stock").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update: %w", err)
	}

	var stock int
	err = r.q.QueryRowContext(ctx, query, args...).Scan(&stock)
	if err == nil {
		r.logger.DebugContext(ctx, "stock adjusted",
			slog.Int64("product_id", id),
			slog.Int("delta", delta),
			slog.Int("stock", stock))
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, mapError("adjust stock", err)
	}

	// No row matched: either the product is gone or the delta overdraws it.
	p, getErr := r.Get(ctx, id)
	if getErr != nil {
		return 0, getErr
	}
	return p.Stock, &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{
		ProductID:  p.ID,
		PartNumber: p.PartNumber,
		Requested:  -delta,
		Available:  p.Stock,
	}}}
}

// RelinkSupplier rewrites the supplier reference on matching products
func (r *productRepository) RelinkSupplier(ctx context.Context, oldName, newName string) (int64, error) {
	query, args, err := squirrel.Update("products").
		Set("supplier", newName).
		Where(squirrel.Expr("supplier = ? COLLATE NOCASE", oldName)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError("relink supplier", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("relink supplier", err)
	}

	r.logger.DebugContext(ctx, "supplier relinked",
		slog.String("from", oldName),
		slog.String("to", newName),
		slog.Int64("products", n))

	return n, nil
}
