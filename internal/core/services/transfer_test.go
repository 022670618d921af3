package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/adapters/spreadsheet"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
)

func TestTransferService_ExportProductsCSV(t *testing.T) {
	f := seeded(t)

	table, err := f.transfer.Export(services.KindProducts)
	require.NoError(t, err)
	assert.Equal(t, "Products", table.Name)
	assert.Equal(t, services.Columns(services.KindProducts), table.Header)

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.CSVCodec{}.Encode(&buf, []domain.Table{table}))

	g := goldie.New(t)
	g.Assert(t, "seed_products_csv", buf.Bytes())
}

func TestTransferService_ExportInvoicesOldestFirst(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	for _, date := range []string{"2024-02-01", "2024-01-01"} {
		d := f.invoices.NewDraft()
		d.Number = "INV-" + date
		d.Date = date
		require.NoError(t, f.invoices.AddLine(d, "FLT-456", 1, decimal.Zero))
		_, err := f.invoices.Commit(ctx, d)
		require.NoError(t, err)
	}

	table, err := f.transfer.Export(services.KindInvoices)
	require.NoError(t, err)

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-01", records[0]["date"])
	assert.Equal(t, "2024-02-01", records[1]["date"])
	assert.Equal(t, "", records[0]["customerId"])
	assert.Equal(t, "9.5", records[0]["total"])

	items, err := f.transfer.Export(services.KindInvoiceItems)
	require.NoError(t, err)
	assert.Len(t, items.Rows, 2)
}

func TestTransferService_ImportProducts(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	table := domain.Table{
		Header: []string{"partNumber", "name", "supplier", "cost", "price", "stock", "lowThreshold"},
		Rows: [][]string{
			{"brk-123", "Brake Pad Set (Ceramic)", "SilverLine Supplies", "22", "39.99", "30", ""},
			{"ALT-900", "Alternator", "Midnight Motors", "80", "145", "2.0", "1"},
			{"", "", "", "", "", "", ""},
		},
	}

	report, err := f.transfer.Import(ctx, services.KindProducts, table)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)

	brk, ok := f.state.ProductByPartNumber("BRK-123")
	require.True(t, ok)
	assert.Equal(t, int64(1), brk.ID)
	assert.Equal(t, "Brake Pad Set (Ceramic)", brk.Name)
	assert.Equal(t, "39.99", domain.FormatMoney(brk.Price))
	assert.Equal(t, 30, brk.Stock)
	assert.Nil(t, brk.LowThreshold)

	alt, ok := f.state.ProductByPartNumber("ALT-900")
	require.True(t, ok)
	assert.Equal(t, 2, alt.Stock)
	require.NotNil(t, alt.LowThreshold)
	assert.Equal(t, 1, *alt.LowThreshold)
}

func TestTransferService_ImportIsAllOrNothing(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	table := domain.Table{
		Header: []string{"partNumber", "name", "price", "stock"},
		Rows: [][]string{
			{"NEW-001", "Wiper Blade", "12", "4"},
			{"NEW-002", "Radiator Cap", "seven", "4"},
		},
	}

	_, err := f.transfer.Import(ctx, services.KindProducts, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")

	_, ok := f.state.ProductByPartNumber("NEW-001")
	assert.False(t, ok)
	p, err := f.db.Store.Products().FindByPartNumber(ctx, "NEW-001")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTransferService_ImportCustomersMatchByName(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	table := domain.Table{
		Header: services.Columns(services.KindCustomers),
		Rows: [][]string{
			{"", "acme auto", "555-0999", "shop@acme.test", "", "", ""},
			{"", "Jane Roe", "", "", "", "", ""},
		},
	}

	report, err := f.transfer.Import(ctx, services.KindCustomers, table)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)

	acme, ok := f.state.CustomerByName("Acme Auto")
	require.True(t, ok)
	assert.Equal(t, "555-0999", acme.Phone)
	assert.Len(t, f.state.Customers(), 3)
}

func TestTransferService_ImportInvoiceItemsAlone(t *testing.T) {
	f := seeded(t)

	_, err := f.transfer.Import(context.Background(), services.KindInvoiceItems, domain.Table{
		Header: services.Columns(services.KindInvoiceItems),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransferService_ImportInvoicesTwiceIsHarmless(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	invoices := domain.Table{
		Header: services.Columns(services.KindInvoices),
		Rows: [][]string{
			{"10", "INV-OLD-1", "2023-12-30", "", "41"},
		},
	}
	items := domain.Table{
		Header: services.Columns(services.KindInvoiceItems),
		Rows: [][]string{
			{"100", "10", "1", "BRK-123", "Brake Pad Set", "1", "35"},
			{"101", "10", "", "GONE-1", "Discontinued Part", "1", "6"},
			{"102", "99", "", "ORPHAN", "No Header", "1", "1"},
		},
	}

	invReport, lineReport, err := f.transfer.ImportInvoices(ctx, invoices, items, services.ImportRemap{})
	require.NoError(t, err)
	assert.Equal(t, 1, invReport.Created)
	assert.Equal(t, 2, lineReport.Created)
	assert.Equal(t, 1, lineReport.Skipped)

	// stock is history, not a sale
	assert.Equal(t, 25, f.stock(t, "BRK-123"))

	invReport, lineReport, err = f.transfer.ImportInvoices(ctx, invoices, items, services.ImportRemap{})
	require.NoError(t, err)
	assert.Equal(t, 0, invReport.Created)
	assert.Equal(t, 1, invReport.Skipped)
	assert.Equal(t, 0, lineReport.Created)

	stored, err := f.db.Store.Invoices().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	lines, err := f.db.Store.InvoiceLines().ListByInvoice(ctx, stored[0].ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Len(t, f.state.InvoiceLines(stored[0].ID), 2)
}

func TestTransferService_WorkbookRoundTrip(t *testing.T) {
	src := seeded(t)
	ctx := context.Background()

	d := src.invoices.NewDraft()
	d.Number = "INV-RT"
	require.NoError(t, src.invoices.SetCustomer(d, "Acme Auto"))
	require.NoError(t, src.invoices.AddLine(d, "BRK-123", 2, decimal.Zero))
	require.NoError(t, src.invoices.AddLine(d, "SPK-789", 1, decimal.Zero))
	_, err := src.invoices.Commit(ctx, d)
	require.NoError(t, err)

	tables, err := src.transfer.ExportAll()
	require.NoError(t, err)
	require.Len(t, tables, 5)

	var buf bytes.Buffer
	codec := spreadsheet.XLSXCodec{}
	require.NoError(t, codec.Encode(&buf, tables))
	decoded, err := codec.Decode(&buf)
	require.NoError(t, err)

	// an empty store with a customer already taking id 1
	dst := newFixture(t)
	require.NoError(t, dst.customers.Create(ctx, &domain.Customer{Name: "Walk-up Regular"}))

	reports, err := dst.transfer.ImportWorkbook(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, 2, reports[services.KindSuppliers].Created)
	assert.Equal(t, 2, reports[services.KindCustomers].Created)
	assert.Equal(t, 3, reports[services.KindProducts].Created)
	assert.Equal(t, 1, reports[services.KindInvoices].Created)
	assert.Equal(t, 2, reports[services.KindInvoiceItems].Created)

	assert.Equal(t, 23, dst.stock(t, "BRK-123"))
	assert.Equal(t, 11, dst.stock(t, "SPK-789"))

	inv, err := dst.invoices.Find(ctx, "INV-RT")
	require.NoError(t, err)
	assert.Equal(t, "76.50", domain.FormatMoney(inv.Total))
	require.NotNil(t, inv.CustomerID)
	acme, ok := dst.state.CustomerByName("Acme Auto")
	require.True(t, ok)
	assert.Equal(t, acme.ID, *inv.CustomerID)

	require.Len(t, inv.Lines, 2)
	spk, ok := dst.state.ProductByPartNumber("SPK-789")
	require.True(t, ok)
	require.NotNil(t, inv.Lines[1].ProductID)
	assert.Equal(t, spk.ID, *inv.Lines[1].ProductID)

	// restoring the same workbook again changes nothing
	again, err := dst.transfer.ImportWorkbook(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, 0, again[services.KindProducts].Created)
	assert.Equal(t, 3, again[services.KindProducts].Updated)
	assert.Equal(t, 1, again[services.KindInvoices].Skipped)
	assert.Equal(t, 0, again[services.KindInvoiceItems].Created)
	assert.Len(t, dst.invoices.List(), 1)
}

func TestTransferService_WorkbookRoundTripSharedNumbers(t *testing.T) {
	src := seeded(t)
	ctx := context.Background()

	// two identical counter sales and a third under the same number
	sales := []struct {
		ref string
		qty int
	}{
		{"BRK-123", 1},
		{"BRK-123", 1},
		{"FLT-456", 2},
	}
	for _, sale := range sales {
		d := src.invoices.NewDraft()
		d.Number = "COUNTER"
		require.NoError(t, src.invoices.AddLine(d, sale.ref, sale.qty, decimal.Zero))
		_, err := src.invoices.Commit(ctx, d)
		require.NoError(t, err)
	}

	tables, err := src.transfer.ExportAll()
	require.NoError(t, err)

	var buf bytes.Buffer
	codec := spreadsheet.XLSXCodec{}
	require.NoError(t, codec.Encode(&buf, tables))
	decoded, err := codec.Decode(&buf)
	require.NoError(t, err)

	dst := newFixture(t)
	reports, err := dst.transfer.ImportWorkbook(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, 3, reports[services.KindInvoices].Created)
	assert.Equal(t, 0, reports[services.KindInvoices].Skipped)
	assert.Equal(t, 3, reports[services.KindInvoiceItems].Created)

	restored := dst.invoices.List()
	require.Len(t, restored, 3)
	var totals []string
	for _, inv := range restored {
		assert.Equal(t, "COUNTER", inv.Number)
		assert.Len(t, dst.state.InvoiceLines(inv.ID), 1)
		totals = append(totals, domain.FormatMoney(inv.Total))
	}
	assert.ElementsMatch(t, []string{"35.00", "35.00", "19.00"}, totals)

	lines, err := dst.db.Store.InvoiceLines().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	again, err := dst.transfer.ImportWorkbook(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, 0, again[services.KindInvoices].Created)
	assert.Equal(t, 3, again[services.KindInvoices].Skipped)
	assert.Equal(t, 0, again[services.KindInvoiceItems].Created)
	assert.Len(t, dst.invoices.List(), 3)
}
