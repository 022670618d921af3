// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
	"github.com/ammerola/partsdesk/test/helpers"
)

// benchEnv is the service graph the CLI builds, over a temp database
type benchEnv struct {
	db       *helpers.TestDB
	state    *services.State
	products *services.ProductService
	invoices *services.InvoiceService
	transfer *services.TransferService
}

func newBenchEnv(b *testing.B, productCount int) *benchEnv {
	b.Helper()

	tdb := helpers.SetupTestDB(b)
	logger := helpers.TestLogger()
	m := metrics.New()
	state := services.NewState(tdb.Store, logger)

	env := &benchEnv{
		db:       tdb,
		state:    state,
		products: services.NewProductService(tdb.Store, state, m, logger),
		invoices: services.NewInvoiceService(tdb.Store, state, m, logger),
	}
	customers := services.NewCustomerService(tdb.Store, state, m, logger)
	suppliers := services.NewSupplierService(tdb.Store, state, m, logger)
	env.transfer = services.NewTransferService(tdb.Store, state,
		env.products, customers, suppliers, env.invoices, m, logger)

	products := helpers.CreateTestProducts(productCount)
	for i := range products {
		products[i].Stock = 1_000_000
	}
	helpers.SeedProducts(b, tdb, products...)

	require.NoError(b, state.Load(context.Background()))
	return env
}

// draft builds a bill over the first lines products
func (e *benchEnv) draft(b *testing.B, lines int) *domain.Draft {
	b.Helper()

	d := e.invoices.NewDraft()
	products := e.state.Products()
	for i := 0; i < lines && i < len(products); i++ {
		require.NoError(b, e.invoices.AddLine(d, products[i].PartNumber, 1, decimal.Zero))
	}
	return d
}
