// internal/core/services/transfer.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

var kindColumns = map[Kind][]string{
	KindProducts:     {"id", "partNumber", "name", "supplier", "cost", "price", "stock", "lowThreshold", "notes"},
	KindCustomers:    {"id", "name", "phone", "email", "address", "taxId", "notes"},
	KindSuppliers:    {"id", "name", "phone", "email", "address", "notes"},
	KindInvoices:     {"id", "number", "date", "customerId", "total"},
	KindInvoiceItems: {"id", "invoiceId", "productId", "partNumber", "name", "qty", "price"},
}

var sheetNames = map[Kind]string{
	KindProducts:     "Products",
	KindCustomers:    "Customers",
	KindSuppliers:    "Suppliers",
	KindInvoices:     "Invoices",
	KindInvoiceItems: "InvoiceItems",
}

// Columns returns the header used for kind
func Columns(kind Kind) []string {
	return append([]string(nil), kindColumns[kind]...)
}

// SheetName returns the workbook sheet that holds kind
func SheetName(kind Kind) string {
	return sheetNames[kind]
}

// TransferService moves collections in and out of tabular form. Imports go
// through the same save paths as manual edits.
type TransferService struct {
	store     ports.Store
	state     *State
	products  *ProductService
	customers *CustomerService
	suppliers *SupplierService
	invoices  *InvoiceService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewTransferService(
	store ports.Store,
	state *State,
	products *ProductService,
	customers *CustomerService,
	suppliers *SupplierService,
	invoices *InvoiceService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *TransferService {
	return &TransferService{
		store:     store,
		state:     state,
		products:  products,
		customers: customers,
		suppliers: suppliers,
		invoices:  invoices,
		metrics:   m,
		logger:    logger.With(slog.String("service", "transfer")),
	}
}

// Export renders the cached collection for kind
func (s *TransferService) Export(kind Kind) (domain.Table, error) {
	cols, ok := kindColumns[kind]
	if !ok {
		return domain.Table{}, fmt.Errorf("unknown kind %q", kind)
	}
	t := domain.Table{Name: sheetNames[kind], Header: append([]string(nil), cols...)}

	switch kind {
	case KindProducts:
		for _, p := range s.state.Products() {
			t.Append(map[string]string{
				"id":           formatID(p.ID),
				"partNumber":   p.PartNumber,
				"name":         p.Name,
				"supplier":     p.Supplier,
				"cost":         p.Cost.String(),
				"price":        p.Price.String(),
				"stock":        strconv.Itoa(p.Stock),
				"lowThreshold": formatOptionalInt(p.LowThreshold),
				"notes":        p.Notes,
			})
		}
	case KindCustomers:
		for _, c := range s.state.Customers() {
			t.Append(map[string]string{
				"id":      formatID(c.ID),
				"name":    c.Name,
				"phone":   c.Phone,
				"email":   c.Email,
				"address": c.Address,
				"taxId":   c.TaxID,
				"notes":   c.Notes,
			})
		}
	case KindSuppliers:
		for _, sp := range s.state.Suppliers() {
			t.Append(map[string]string{
				"id":      formatID(sp.ID),
				"name":    sp.Name,
				"phone":   sp.Phone,
				"email":   sp.Email,
				"address": sp.Address,
				"notes":   sp.Notes,
			})
		}
	case KindInvoices:
		invoices := s.state.Invoices()
		// oldest first so a re-import assigns ids in the original order
		for i := len(invoices) - 1; i >= 0; i-- {
			inv := invoices[i]
			t.Append(map[string]string{
				"id":         formatID(inv.ID),
				"number":     inv.Number,
				"date":       inv.Date,
				"customerId": formatOptionalID(inv.CustomerID),
				"total":      inv.Total.String(),
			})
		}
	case KindInvoiceItems:
		for _, l := range s.state.AllInvoiceLines() {
			t.Append(map[string]string{
				"id":         formatID(l.ID),
				"invoiceId":  formatID(l.InvoiceID),
				"productId":  formatOptionalID(l.ProductID),
				"partNumber": l.PartNumber,
				"name":       l.Name,
				"qty":        strconv.Itoa(l.Qty),
				"price":      l.Price.String(),
			})
		}
	}

	return t, nil
}

// ExportAll renders every collection, one table per kind
func (s *TransferService) ExportAll() ([]domain.Table, error) {
	order := []Kind{KindProducts, KindCustomers, KindSuppliers, KindInvoices, KindInvoiceItems}
	tables := make([]domain.Table, 0, len(order))
	for _, k := range order {
		t, err := s.Export(k)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Import upserts every row of table into kind, matching products by part
// number and customers and suppliers by name. All rows commit together.
func (s *TransferService) Import(ctx context.Context, kind Kind, table domain.Table) (*ImportReport, error) {
	switch kind {
	case KindInvoices:
		report, _, err := s.ImportInvoices(ctx, table, domain.Table{}, ImportRemap{})
		return report, err
	case KindInvoiceItems:
		return nil, &domain.ValidationError{Field: "kind", Message: "invoice items import together with invoices"}
	}

	var report *ImportReport
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		report, err = s.importTx(ctx, tx, kind, table)
		return err
	})
	if err != nil {
		s.metrics.ObserveError("import."+string(kind), err)
		return nil, err
	}

	s.metrics.Imported(string(kind), report.Created, report.Updated)
	s.logger.InfoContext(ctx, "import completed",
		slog.String("kind", string(kind)),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped))

	if err := s.state.Load(ctx); err != nil {
		return report, fmt.Errorf("failed to refresh state: %w", err)
	}
	return report, nil
}

// ImportInvoices inserts invoice headers and their items without touching stock
func (s *TransferService) ImportInvoices(ctx context.Context, invoices, items domain.Table, remap ImportRemap) (*ImportReport, *ImportReport, error) {
	headers, lines, err := parseInvoices(invoices, items)
	if err != nil {
		return nil, nil, err
	}
	return s.invoices.Import(ctx, headers, lines, remap)
}

// ImportWorkbook restores every kind found in tables in dependency order
// inside a single transaction, remapping invoice references onto the ids
// assigned to imported customers and products.
func (s *TransferService) ImportWorkbook(ctx context.Context, tables []domain.Table) (map[Kind]*ImportReport, error) {
	byName := make(map[string]domain.Table, len(tables))
	for _, t := range tables {
		byName[strings.ToLower(t.Name)] = t
	}
	sheet := func(k Kind) (domain.Table, bool) {
		t, ok := byName[strings.ToLower(sheetNames[k])]
		return t, ok
	}

	reports := make(map[Kind]*ImportReport)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		for _, k := range []Kind{KindSuppliers, KindCustomers, KindProducts} {
			t, ok := sheet(k)
			if !ok {
				continue
			}
			r, err := s.importTx(ctx, tx, k, t)
			if err != nil {
				return err
			}
			reports[k] = r
		}

		invTable, ok := sheet(KindInvoices)
		if !ok {
			return nil
		}
		itemTable, _ := sheet(KindInvoiceItems)
		headers, lines, err := parseInvoices(invTable, itemTable)
		if err != nil {
			return err
		}

		remap := ImportRemap{}
		if r, ok := reports[KindCustomers]; ok {
			remap.Customers = r.IDMap
		}
		if r, ok := reports[KindProducts]; ok {
			remap.Products = r.IDMap
		}

		invReport, lineReport, err := s.invoices.importTx(ctx, tx, headers, lines, remap)
		if err != nil {
			return err
		}
		reports[KindInvoices] = invReport
		reports[KindInvoiceItems] = lineReport
		return nil
	})
	if err != nil {
		s.metrics.ObserveError("import.workbook", err)
		return nil, err
	}

	for k, r := range reports {
		s.metrics.Imported(string(k), r.Created, r.Updated)
	}

	if err := s.state.Load(ctx); err != nil {
		return reports, fmt.Errorf("failed to refresh state: %w", err)
	}
	return reports, nil
}

func (s *TransferService) importTx(ctx context.Context, tx ports.Store, kind Kind, table domain.Table) (*ImportReport, error) {
	report := newImportReport(kind)
	records := table.Records()
	report.Skipped = len(table.Rows) - len(records)

	for i, rec := range records {
		var (
			sourceID int64
			storedID int64
			created  bool
			err      error
		)

		switch kind {
		case KindProducts:
			sourceID, storedID, created, err = s.importProduct(ctx, tx, rec)
		case KindCustomers:
			sourceID, storedID, created, err = s.importCustomer(ctx, tx, rec)
		case KindSuppliers:
			sourceID, storedID, created, err = s.importSupplier(ctx, tx, rec)
		default:
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", kind, i+1, err)
		}

		if created {
			report.Created++
		} else {
			report.Updated++
		}
		if sourceID != 0 {
			report.IDMap[sourceID] = storedID
		}
	}

	return report, nil
}

func (s *TransferService) importProduct(ctx context.Context, tx ports.Store, rec map[string]string) (int64, int64, bool, error) {
	sourceID, err := parseID(rec["id"], "id")
	if err != nil {
		return 0, 0, false, err
	}
	p, err := productFromRecord(rec)
	if err != nil {
		return 0, 0, false, err
	}

	existing, err := tx.Products().FindByPartNumber(ctx, p.PartNumber)
	if err != nil {
		return 0, 0, false, err
	}
	if existing != nil {
		p.ID = existing.ID
		return sourceID, p.ID, false, s.products.update(ctx, tx, p)
	}
	if err := s.products.create(ctx, tx, p); err != nil {
		return 0, 0, false, err
	}
	return sourceID, p.ID, true, nil
}

func (s *TransferService) importCustomer(ctx context.Context, tx ports.Store, rec map[string]string) (int64, int64, bool, error) {
	sourceID, err := parseID(rec["id"], "id")
	if err != nil {
		return 0, 0, false, err
	}
	c := &domain.Customer{
		Name:    rec["name"],
		Phone:   rec["phone"],
		Email:   rec["email"],
		Address: rec["address"],
		TaxID:   rec["taxId"],
		Notes:   rec["notes"],
	}

	existing, err := tx.Customers().FindByName(ctx, c.Name)
	if err != nil {
		return 0, 0, false, err
	}
	if existing != nil {
		c.ID = existing.ID
		return sourceID, c.ID, false, s.customers.update(ctx, tx, c)
	}
	if err := s.customers.create(ctx, tx, c); err != nil {
		return 0, 0, false, err
	}
	return sourceID, c.ID, true, nil
}

func (s *TransferService) importSupplier(ctx context.Context, tx ports.Store, rec map[string]string) (int64, int64, bool, error) {
	sourceID, err := parseID(rec["id"], "id")
	if err != nil {
		return 0, 0, false, err
	}
	sp := &domain.Supplier{
		Name:    rec["name"],
		Phone:   rec["phone"],
		Email:   rec["email"],
		Address: rec["address"],
		Notes:   rec["notes"],
	}

	existing, err := tx.Suppliers().FindByName(ctx, sp.Name)
	if err != nil {
		return 0, 0, false, err
	}
	if existing != nil {
		sp.ID = existing.ID
		return sourceID, sp.ID, false, s.suppliers.update(ctx, tx, sp)
	}
	if err := s.suppliers.create(ctx, tx, sp); err != nil {
		return 0, 0, false, err
	}
	return sourceID, sp.ID, true, nil
}

func productFromRecord(rec map[string]string) (*domain.Product, error) {
	cost, err := parseMoney(rec["cost"], "cost")
	if err != nil {
		return nil, err
	}
	price, err := parseMoney(rec["price"], "price")
	if err != nil {
		return nil, err
	}
	stock, err := parseInt(rec["stock"], "stock")
	if err != nil {
		return nil, err
	}
	var low *int
	if strings.TrimSpace(rec["lowThreshold"]) != "" {
		n, err := parseInt(rec["lowThreshold"], "lowThreshold")
		if err != nil {
			return nil, err
		}
		low = &n
	}

	return &domain.Product{
		PartNumber:   rec["partNumber"],
		Name:         rec["name"],
		Supplier:     rec["supplier"],
		Cost:         cost,
		Price:        price,
		Stock:        stock,
		LowThreshold: low,
		Notes:        rec["notes"],
	}, nil
}

func parseInvoices(invoices, items domain.Table) ([]domain.Invoice, []domain.InvoiceLine, error) {
	invRecords := invoices.Records()
	headers := make([]domain.Invoice, 0, len(invRecords))
	for i, rec := range invRecords {
		id, err := parseID(rec["id"], "id")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice row %d: %w", i+1, err)
		}
		customerID, err := parseOptionalID(rec["customerId"], "customerId")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice row %d: %w", i+1, err)
		}
		total, err := parseMoney(rec["total"], "total")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice row %d: %w", i+1, err)
		}
		headers = append(headers, domain.Invoice{
			ID:         id,
			Number:     rec["number"],
			Date:       rec["date"],
			CustomerID: customerID,
			Total:      total,
		})
	}

	itemRecords := items.Records()
	lines := make([]domain.InvoiceLine, 0, len(itemRecords))
	for i, rec := range itemRecords {
		id, err := parseID(rec["id"], "id")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		invoiceID, err := parseID(rec["invoiceId"], "invoiceId")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		productID, err := parseOptionalID(rec["productId"], "productId")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		qty, err := parseInt(rec["qty"], "qty")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		price, err := parseMoney(rec["price"], "price")
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		lines = append(lines, domain.InvoiceLine{
			ID:         id,
			InvoiceID:  invoiceID,
			ProductID:  productID,
			PartNumber: rec["partNumber"],
			Name:       rec["name"],
			Qty:        qty,
			Price:      price,
		})
	}

	return headers, lines, nil
}

func parseMoney(s, field string) (decimal.Decimal, error) {
	d, err := domain.ParseMoney(s)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: field, Message: "must be a number"}
	}
	return d, nil
}

// parseInt accepts whole numbers, including spreadsheet renderings like "25.0"
func parseInt(s, field string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, &domain.ValidationError{Field: field, Message: "must be a whole number"}
	}
	return int(d.IntPart()), nil
}

func parseID(s, field string) (int64, error) {
	n, err := parseInt(s, field)
	return int64(n), err
}

func parseOptionalID(s, field string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := parseID(s, field)
	if err != nil || n == 0 {
		return nil, err
	}
	return &n, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
