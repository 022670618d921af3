// internal/core/services/party.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

// CustomerService handles customer records. Names are not unique.
type CustomerService struct {
	store   ports.Store
	state   *State
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCustomerService(store ports.Store, state *State, m *metrics.Metrics, logger *slog.Logger) *CustomerService {
	return &CustomerService{
		store:   store,
		state:   state,
		metrics: m,
		logger:  logger.With(slog.String("service", "customers")),
	}
}

func (s *CustomerService) Create(ctx context.Context, c *domain.Customer) error {
	if err := s.create(ctx, s.store, c); err != nil {
		s.metrics.ObserveError("customer.create", err)
		return err
	}
	s.logger.InfoContext(ctx, "customer created", slog.Int64("id", c.ID))
	return s.reload(ctx)
}

func (s *CustomerService) Update(ctx context.Context, c *domain.Customer) error {
	if err := s.update(ctx, s.store, c); err != nil {
		s.metrics.ObserveError("customer.update", err)
		return err
	}
	s.logger.InfoContext(ctx, "customer updated", slog.Int64("id", c.ID))
	return s.reload(ctx)
}

// Delete removes a customer. Invoices keep the dangling id.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Customers().Delete(ctx, id); err != nil {
		s.metrics.ObserveError("customer.delete", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.logger.InfoContext(ctx, "customer deleted", slog.Int64("id", id))
	return s.reload(ctx)
}

// FindByName returns the first customer with name, ignoring case
func (s *CustomerService) FindByName(ctx context.Context, name string) (*domain.Customer, error) {
	c, err := s.store.Customers().FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("customer %s: %w", strings.TrimSpace(name), domain.ErrNotFound)
	}
	return c, nil
}

func (s *CustomerService) List() []domain.Customer {
	return s.state.Customers()
}

func (s *CustomerService) create(ctx context.Context, store ports.Store, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	c.ID = 0
	if _, err := store.Customers().Insert(ctx, c); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (s *CustomerService) update(ctx context.Context, store ports.Store, c *domain.Customer) error {
	if c.ID == 0 {
		return &domain.ValidationError{Field: "id", Message: "is required"}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := store.Customers().Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (s *CustomerService) reload(ctx context.Context) error {
	if err := s.state.ReloadCustomers(ctx); err != nil {
		return fmt.Errorf("failed to refresh customers: %w", err)
	}
	return nil
}

// SupplierService handles supplier records. Products refer to a supplier by
// name, so renames go through Rename.
type SupplierService struct {
	store   ports.Store
	state   *State
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSupplierService(store ports.Store, state *State, m *metrics.Metrics, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		store:   store,
		state:   state,
		metrics: m,
		logger:  logger.With(slog.String("service", "suppliers")),
	}
}

func (s *SupplierService) Create(ctx context.Context, sp *domain.Supplier) error {
	if err := s.create(ctx, s.store, sp); err != nil {
		s.metrics.ObserveError("supplier.create", err)
		return err
	}
	s.logger.InfoContext(ctx, "supplier created", slog.Int64("id", sp.ID))
	return s.reload(ctx)
}

// Update replaces the supplier record only. Products keep the old name.
func (s *SupplierService) Update(ctx context.Context, sp *domain.Supplier) error {
	if err := s.update(ctx, s.store, sp); err != nil {
		s.metrics.ObserveError("supplier.update", err)
		return err
	}
	s.logger.InfoContext(ctx, "supplier updated", slog.Int64("id", sp.ID))
	return s.reload(ctx)
}

func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Suppliers().Delete(ctx, id); err != nil {
		s.metrics.ObserveError("supplier.delete", err)
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	s.logger.InfoContext(ctx, "supplier deleted", slog.Int64("id", id))
	return s.reload(ctx)
}

// Rename changes a supplier's name and relinks every product that carried
// the old name. Both writes share one transaction.
func (s *SupplierService) Rename(ctx context.Context, id int64, newName string) (int64, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, &domain.ValidationError{Field: "name", Message: "is required"}
	}

	var relinked int64
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		sp, err := tx.Suppliers().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load supplier: %w", err)
		}

		oldName := sp.Name
		sp.Name = newName
		if err := s.update(ctx, tx, sp); err != nil {
			return err
		}

		if oldName == newName {
			return nil
		}
		relinked, err = tx.Products().RelinkSupplier(ctx, oldName, newName)
		if err != nil {
			return fmt.Errorf("failed to relink products: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveError("supplier.rename", err)
		return 0, err
	}

	s.logger.InfoContext(ctx, "supplier renamed",
		slog.Int64("id", id),
		slog.String("name", newName),
		slog.Int64("products_relinked", relinked))

	if err := s.reload(ctx); err != nil {
		return relinked, err
	}
	if err := s.state.ReloadProducts(ctx); err != nil {
		return relinked, fmt.Errorf("failed to refresh products: %w", err)
	}
	return relinked, nil
}

// FindByName returns the first supplier with name, ignoring case
func (s *SupplierService) FindByName(ctx context.Context, name string) (*domain.Supplier, error) {
	sp, err := s.store.Suppliers().FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	if sp == nil {
		return nil, fmt.Errorf("supplier %s: %w", strings.TrimSpace(name), domain.ErrNotFound)
	}
	return sp, nil
}

func (s *SupplierService) List() []domain.Supplier {
	return s.state.Suppliers()
}

func (s *SupplierService) create(ctx context.Context, store ports.Store, sp *domain.Supplier) error {
	if err := sp.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	sp.ID = 0
	if _, err := store.Suppliers().Insert(ctx, sp); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

func (s *SupplierService) update(ctx context.Context, store ports.Store, sp *domain.Supplier) error {
	if sp.ID == 0 {
		return &domain.ValidationError{Field: "id", Message: "is required"}
	}
	if err := sp.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := store.Suppliers().Update(ctx, sp); err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return nil
}

func (s *SupplierService) reload(ctx context.Context) error {
	if err := s.state.ReloadSuppliers(ctx); err != nil {
		return fmt.Errorf("failed to refresh suppliers: %w", err)
	}
	return nil
}
