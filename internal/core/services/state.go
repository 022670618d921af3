// internal/core/services/state.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// State is the in-memory mirror of every collection. Services reload the
// collections they touch after each successful write; readers get copies.
type State struct {
	mu    sync.RWMutex
	store ports.Store

	products  []domain.Product
	customers []domain.Customer
	suppliers []domain.Supplier
	invoices  []domain.Invoice // newest first
	lines     []domain.InvoiceLine
	settings  domain.Settings

	logger *slog.Logger
}

// NewState creates an empty cache over store. Call Load before reading.
func NewState(store ports.Store, logger *slog.Logger) *State {
	return &State{
		store:    store,
		settings: domain.Settings{},
		logger:   logger.With(slog.String("component", "state")),
	}
}

// Load reloads every collection
func (s *State) Load(ctx context.Context) error {
	loaders := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"products", s.ReloadProducts},
		{"customers", s.ReloadCustomers},
		{"suppliers", s.ReloadSuppliers},
		{"invoices", s.ReloadInvoices},
		{"settings", s.ReloadSettings},
	}

	for _, l := range loaders {
		if err := l.fn(ctx); err != nil {
			return fmt.Errorf("failed to load %s: %w", l.name, err)
		}
	}

	s.mu.RLock()
	s.logger.DebugContext(ctx, "state loaded",
		slog.Int("products", len(s.products)),
		slog.Int("customers", len(s.customers)),
		slog.Int("suppliers", len(s.suppliers)),
		slog.Int("invoices", len(s.invoices)))
	s.mu.RUnlock()

	return nil
}

func (s *State) ReloadProducts(ctx context.Context) error {
	products, err := s.store.Products().GetAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

func (s *State) ReloadCustomers(ctx context.Context) error {
	customers, err := s.store.Customers().GetAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.customers = customers
	s.mu.Unlock()
	return nil
}

func (s *State) ReloadSuppliers(ctx context.Context) error {
	suppliers, err := s.store.Suppliers().GetAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.suppliers = suppliers
	s.mu.Unlock()
	return nil
}

// ReloadInvoices reloads invoice headers and their lines together
func (s *State) ReloadInvoices(ctx context.Context) error {
	invoices, err := s.store.Invoices().GetAll(ctx)
	if err != nil {
		return err
	}
	lines, err := s.store.InvoiceLines().GetAll(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].Date != invoices[j].Date {
			return invoices[i].Date > invoices[j].Date
		}
		return invoices[i].ID > invoices[j].ID
	})

	s.mu.Lock()
	s.invoices = invoices
	s.lines = lines
	s.mu.Unlock()
	return nil
}

func (s *State) ReloadSettings(ctx context.Context) error {
	settings, err := s.store.Settings().All(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// SetSetting patches one key after a successful write
func (s *State) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = domain.Settings{}
	}
	s.settings[key] = value
}

func (s *State) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

func (s *State) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *State) ProductByPartNumber(partNumber string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if domain.SamePartNumber(p.PartNumber, partNumber) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *State) ProductByName(name string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if domain.SameName(p.Name, name) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *State) Customers() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Customer(nil), s.customers...)
}

func (s *State) Customer(id int64) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// CustomerByName returns the first customer with that name, ignoring case
func (s *State) CustomerByName(name string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if domain.SameName(c.Name, name) {
			return c, true
		}
	}
	return domain.Customer{}, false
}

func (s *State) Suppliers() []domain.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Supplier(nil), s.suppliers...)
}

func (s *State) SupplierByName(name string) (domain.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sp := range s.suppliers {
		if domain.SameName(sp.Name, name) {
			return sp, true
		}
	}
	return domain.Supplier{}, false
}

// Invoices returns every invoice, newest first
func (s *State) Invoices() []domain.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Invoice(nil), s.invoices...)
}

func (s *State) Invoice(id int64) (domain.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

func (s *State) InvoiceByNumber(number string) (domain.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	number = strings.TrimSpace(number)
	for _, inv := range s.invoices {
		if strings.EqualFold(inv.Number, number) {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

// InvoiceLines returns the lines of one invoice in insertion order
func (s *State) InvoiceLines(invoiceID int64) []domain.InvoiceLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InvoiceLine, 0)
	for _, l := range s.lines {
		if l.InvoiceID == invoiceID {
			out = append(out, l)
		}
	}
	return out
}

func (s *State) AllInvoiceLines() []domain.InvoiceLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.InvoiceLine(nil), s.lines...)
}

func (s *State) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}
