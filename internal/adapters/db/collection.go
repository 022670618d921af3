// internal/adapters/db/collection.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// lookupField describes a column that FindByUniqueField can search.
type lookupField[T any] struct {
	column string
	index  string
	value  func(*T) string
}

// schema maps one record type onto its table.
type schema[T any] struct {
	table   string
	columns []string
	values  func(*T) []interface{}
	scan    func(scanner) (*T, error)
	id      func(*T) int64
	setID   func(*T, int64)
	lookups map[string]lookupField[T]
}

func (s schema[T]) selectColumns() []string {
	return append([]string{"id"}, s.columns...)
}

// Collection is the generic keyed record store for one table.
type Collection[T any] struct {
	q      querier
	schema schema[T]
	logger *slog.Logger
}

func newCollection[T any](q querier, s schema[T], logger *slog.Logger) *Collection[T] {
	return &Collection[T]{
		q:      q,
		schema: s,
		logger: logger,
	}
}

// GetAll returns every record ordered by id
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	query, args, err := squirrel.Select(c.schema.selectColumns()...).
		From(c.schema.table).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return c.queryAll(ctx, "select "+c.schema.table, query, args...)
}

// Get returns the record with id, or ErrNotFound
func (c *Collection[T]) Get(ctx context.Context, id int64) (*T, error) {
	query, args, err := squirrel.Select(c.schema.selectColumns()...).
		From(c.schema.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rec, err := c.schema.scan(c.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", c.schema.table, id, domain.ErrNotFound)
		}
		return nil, mapError("get "+c.schema.table, err)
	}
	return rec, nil
}

// Insert stores rec under a new id and writes the id back into rec
func (c *Collection[T]) Insert(ctx context.Context, rec *T) (int64, error) {
	query, args, err := squirrel.Insert(c.schema.table).
		Columns(c.schema.columns...).
		Values(c.schema.values(rec)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	if err := c.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapError("insert "+c.schema.table, err)
	}
	c.schema.setID(rec, id)

	c.logger.DebugContext(ctx, "record inserted",
		slog.String("table", c.schema.table),
		slog.Int64("id", id))

	return id, nil
}

// Update replaces the record stored at rec's id. A missing id is ErrNotFound.
func (c *Collection[T]) Update(ctx context.Context, rec *T) error {
	id := c.schema.id(rec)
	if id == 0 {
		return &domain.ValidationError{Field: "id", Message: "is required"}
	}

	values := c.schema.values(rec)
	set := make(map[string]interface{}, len(values))
	for i, col := range c.schema.columns {
		set[col] = values[i]
	}

	query, args, err := squirrel.Update(c.schema.table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError("update "+c.schema.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("update "+c.schema.table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", c.schema.table, id, domain.ErrNotFound)
	}

	c.logger.DebugContext(ctx, "record updated",
		slog.String("table", c.schema.table),
		slog.Int64("id", id))

	return nil
}

// Delete removes the record. Deleting a missing id is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	query, args, err := squirrel.Delete(c.schema.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
		return mapError("delete "+c.schema.table, err)
	}

	c.logger.DebugContext(ctx, "record deleted",
		slog.String("table", c.schema.table),
		slog.Int64("id", id))

	return nil
}

// FindByUniqueField returns the first record whose field equals value,
// ignoring case, or nil when none does. It uses the field's index when the
// schema has it and scans the whole table otherwise.
func (c *Collection[T]) FindByUniqueField(ctx context.Context, field, value string) (*T, error) {
	lookup, ok := c.schema.lookups[field]
	if !ok {
		return nil, fmt.Errorf("%s has no lookup field %q", c.schema.table, field)
	}

	indexed, err := c.hasIndex(ctx, lookup.index)
	if err != nil {
		return nil, err
	}

	if !indexed {
		c.logger.DebugContext(ctx, "index missing, scanning",
			slog.String("table", c.schema.table),
			slog.String("index", lookup.index))
		return c.scanFor(ctx, lookup, value)
	}

	query, args, err := squirrel.Select(c.schema.selectColumns()...).
		From(c.schema.table).
		Where(squirrel.Expr(lookup.column+" = ? COLLATE NOCASE", strings.TrimSpace(value))).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rec, err := c.schema.scan(c.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find "+c.schema.table, err)
	}
	return rec, nil
}

func (c *Collection[T]) scanFor(ctx context.Context, lookup lookupField[T], value string) (*T, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(strings.TrimSpace(lookup.value(&all[i])), strings.TrimSpace(value)) {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (c *Collection[T]) hasIndex(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, nil
	}

	query, args, err := squirrel.Select("COUNT(*)").
		From("sqlite_master").
		Where(squirrel.Eq{"type": "index", "name": name}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var n int
	if err := c.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, mapError("inspect schema", err)
	}
	return n > 0, nil
}

func (c *Collection[T]) queryAll(ctx context.Context, op, query string, args ...interface{}) ([]T, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		rec, err := c.schema.scan(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullableInt64(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
