// internal/core/services/seed.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// Seeder fills an empty store with starter records
type Seeder struct {
	store    ports.Store
	state    *State
	settings *SettingsService
	defaults domain.Settings
	logger   *slog.Logger
}

// NewSeeder creates a seeder. defaults overrides the built-in setting values.
func NewSeeder(store ports.Store, state *State, settings *SettingsService, defaults domain.Settings, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:    store,
		state:    state,
		settings: settings,
		defaults: defaults,
		logger:   logger.With(slog.String("component", "seeder")),
	}
}

// SeedProducts are the starter products
func SeedProducts() []domain.Product {
	five, ten := 5, 10
	return []domain.Product{
		{PartNumber: "BRK-123", Name: "Brake Pad Set", Supplier: "SilverLine Supplies", Cost: decimal.NewFromInt(20), Price: decimal.NewFromInt(35), Stock: 25, LowThreshold: &five},
		{PartNumber: "FLT-456", Name: "Oil Filter", Supplier: "Midnight Motors", Cost: decimal.NewFromInt(5), Price: decimal.RequireFromString("9.5"), Stock: 50, LowThreshold: &ten},
		{PartNumber: "SPK-789", Name: "Spark Plug", Supplier: "SilverLine Supplies", Cost: decimal.NewFromInt(3), Price: decimal.RequireFromString("6.5"), Stock: 12, LowThreshold: &five},
	}
}

// SeedIfEmpty writes the starter data when there are no products, customers
// or suppliers, then loads the state. It reports whether it seeded.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (bool, error) {
	seeded := false
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		empty, err := isEmpty(ctx, tx)
		if err != nil || !empty {
			return err
		}

		suppliers := []domain.Supplier{
			{Name: "SilverLine Supplies"},
			{Name: "Midnight Motors"},
		}
		for i := range suppliers {
			if _, err := tx.Suppliers().Insert(ctx, &suppliers[i]); err != nil {
				return fmt.Errorf("failed to seed supplier: %w", err)
			}
		}

		for _, p := range SeedProducts() {
			p := p
			if _, err := tx.Products().Insert(ctx, &p); err != nil {
				return fmt.Errorf("failed to seed product: %w", err)
			}
		}

		customers := []domain.Customer{
			{Name: "John Doe", Phone: "555-0100"},
			{Name: "Acme Auto", Phone: "555-0101"},
		}
		for i := range customers {
			if _, err := tx.Customers().Insert(ctx, &customers[i]); err != nil {
				return fmt.Errorf("failed to seed customer: %w", err)
			}
		}

		values := domain.Settings{
			domain.SettingLowStockThreshold: strconv.Itoa(s.defaults.LowStockThreshold()),
			domain.SettingBusinessName:      s.defaults.BusinessName(),
			domain.SettingInvoiceFooter:     s.defaults.InvoiceFooter(),
		}
		if err := s.settings.Defaults(ctx, tx, values); err != nil {
			return err
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.InfoContext(ctx, "seeded starter data")
	}

	if err := s.state.Load(ctx); err != nil {
		return seeded, err
	}
	return seeded, nil
}

func isEmpty(ctx context.Context, store ports.Store) (bool, error) {
	products, err := store.Products().GetAll(ctx)
	if err != nil {
		return false, err
	}
	customers, err := store.Customers().GetAll(ctx)
	if err != nil {
		return false, err
	}
	suppliers, err := store.Suppliers().GetAll(ctx)
	if err != nil {
		return false, err
	}
	return len(products) == 0 && len(customers) == 0 && len(suppliers) == 0, nil
}
