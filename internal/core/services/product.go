// internal/core/services/product.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

// ProductService handles product business logic
type ProductService struct {
	store   ports.Store
	state   *State
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(store ports.Store, state *State, m *metrics.Metrics, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:   store,
		state:   state,
		metrics: m,
		logger:  logger.With(slog.String("service", "products")),
	}
}

// Create validates and stores a new product
func (s *ProductService) Create(ctx context.Context, p *domain.Product) error {
	if err := s.create(ctx, s.store, p); err != nil {
		s.metrics.ObserveError("product.create", err)
		return err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("id", p.ID),
		slog.String("part_number", p.PartNumber))

	return s.reload(ctx)
}

// Update replaces an existing product. The id must already exist.
func (s *ProductService) Update(ctx context.Context, p *domain.Product) error {
	if err := s.update(ctx, s.store, p); err != nil {
		s.metrics.ObserveError("product.update", err)
		return err
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.Int64("id", p.ID),
		slog.String("part_number", p.PartNumber))

	return s.reload(ctx)
}

// Delete removes a product. Invoice lines keep their snapshots.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		s.metrics.ObserveError("product.delete", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("id", id))

	return s.reload(ctx)
}

// AdjustStock adds delta to the stock of the product with partNumber.
// A result below zero is rejected and stock is left unchanged.
func (s *ProductService) AdjustStock(ctx context.Context, partNumber string, delta int) (*domain.Product, error) {
	repo := s.store.Products()

	p, err := repo.FindByPartNumber(ctx, partNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", strings.TrimSpace(partNumber), domain.ErrNotFound)
	}

	stock, err := repo.AdjustStock(ctx, p.ID, delta)
	if err != nil {
		s.metrics.ObserveError("product.adjust_stock", err)
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	p.Stock = stock

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("part_number", p.PartNumber),
		slog.Int("delta", delta),
		slog.Int("stock", stock))

	if err := s.reload(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// FindByPartNumber returns the product with partNumber, ignoring case
func (s *ProductService) FindByPartNumber(ctx context.Context, partNumber string) (*domain.Product, error) {
	p, err := s.store.Products().FindByPartNumber(ctx, partNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", strings.TrimSpace(partNumber), domain.ErrNotFound)
	}
	return p, nil
}

// List returns cached products filtered and sorted by params
func (s *ProductService) List(params ListParams) []domain.Product {
	global := s.state.Settings().LowStockThreshold()
	search := strings.ToLower(strings.TrimSpace(params.Search))

	out := make([]domain.Product, 0)
	for _, p := range s.state.Products() {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.PartNumber), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Supplier), search) {
			continue
		}
		if params.Supplier != "" && !domain.SameName(p.Supplier, params.Supplier) {
			continue
		}
		if params.LowStockOnly && !p.IsLowStock(global) {
			continue
		}
		out = append(out, p)
	}

	less := productOrder(params.SortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if params.SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

// LowStock lists products at or below their effective threshold
func (s *ProductService) LowStock() []domain.Product {
	return s.List(ListParams{LowStockOnly: true, SortBy: "stock"})
}

func (s *ProductService) create(ctx context.Context, store ports.Store, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	p.ID = 0

	if err := s.checkDuplicate(ctx, store, p); err != nil {
		return err
	}

	if _, err := store.Products().Insert(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *ProductService) update(ctx context.Context, store ports.Store, p *domain.Product) error {
	if p.ID == 0 {
		return &domain.ValidationError{Field: "id", Message: "is required"}
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkDuplicate(ctx, store, p); err != nil {
		return err
	}

	if err := store.Products().Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// checkDuplicate gives a friendly error before the unique index would
// reject the write.
func (s *ProductService) checkDuplicate(ctx context.Context, store ports.Store, p *domain.Product) error {
	existing, err := store.Products().FindByPartNumber(ctx, p.PartNumber)
	if err != nil {
		return fmt.Errorf("failed to check part number: %w", err)
	}
	if existing != nil && existing.ID != p.ID {
		return &domain.ConstraintError{Field: "part number", Value: p.PartNumber}
	}
	return nil
}

func (s *ProductService) reload(ctx context.Context) error {
	if err := s.state.ReloadProducts(ctx); err != nil {
		return fmt.Errorf("failed to refresh products: %w", err)
	}
	return nil
}

func productOrder(by string) func(a, b domain.Product) bool {
	switch by {
	case "name":
		return func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "stock":
		return func(a, b domain.Product) bool { return a.Stock < b.Stock }
	case "price":
		return func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case "partNumber":
		return func(a, b domain.Product) bool {
			return strings.ToLower(a.PartNumber) < strings.ToLower(b.PartNumber)
		}
	default:
		return func(a, b domain.Product) bool { return a.ID < b.ID }
	}
}

// isNotFound is shared by services that treat a missing record as a soft miss
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
