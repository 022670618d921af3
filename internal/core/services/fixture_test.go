package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
	"github.com/ammerola/partsdesk/test/helpers"
)

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

// fixture wires every service over a fresh SQLite database
type fixture struct {
	db        *helpers.TestDB
	metrics   *metrics.Metrics
	state     *services.State
	products  *services.ProductService
	customers *services.CustomerService
	suppliers *services.SupplierService
	settings  *services.SettingsService
	invoices  *services.InvoiceService
	transfer  *services.TransferService
	seeder    *services.Seeder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tdb := helpers.SetupTestDB(t)
	logger := helpers.TestLogger()
	m := metrics.New()
	state := services.NewState(tdb.Store, logger)

	f := &fixture{
		db:        tdb,
		metrics:   m,
		state:     state,
		products:  services.NewProductService(tdb.Store, state, m, logger),
		customers: services.NewCustomerService(tdb.Store, state, m, logger),
		suppliers: services.NewSupplierService(tdb.Store, state, m, logger),
		settings:  services.NewSettingsService(tdb.Store, state, m, logger),
		invoices: services.NewInvoiceService(tdb.Store, state, m, logger).
			WithClock(func() time.Time { return fixedNow }),
	}
	f.transfer = services.NewTransferService(tdb.Store, state,
		f.products, f.customers, f.suppliers, f.invoices, m, logger)
	f.seeder = services.NewSeeder(tdb.Store, state, f.settings, domain.DefaultSettings(), logger)

	require.NoError(t, state.Load(context.Background()))
	return f
}

// seeded returns a fixture holding the starter data
func seeded(t *testing.T) *fixture {
	t.Helper()

	f := newFixture(t)
	ok, err := f.seeder.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return f
}

func (f *fixture) stock(t *testing.T, partNumber string) int {
	t.Helper()

	p, err := f.db.Store.Products().FindByPartNumber(context.Background(), partNumber)
	require.NoError(t, err)
	require.NotNil(t, p, "product %s", partNumber)
	return p.Stock
}
