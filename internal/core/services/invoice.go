// internal/core/services/invoice.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	applog "github.com/ammerola/partsdesk/internal/pkg/logger"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

// InvoiceService turns drafts into invoices and reads them back
type InvoiceService struct {
	store   ports.Store
	state   *State
	metrics *metrics.Metrics
	clock   func() time.Time
	logger  *slog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(store ports.Store, state *State, m *metrics.Metrics, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		store:   store,
		state:   state,
		metrics: m,
		clock:   time.Now,
		logger:  logger.With(slog.String("service", "invoices")),
	}
}

// WithClock replaces the time source used for default numbers and dates
func (s *InvoiceService) WithClock(clock func() time.Time) *InvoiceService {
	s.clock = clock
	return s
}

// NewDraft returns an empty draft dated today
func (s *InvoiceService) NewDraft() *domain.Draft {
	return domain.NewDraft(s.clock())
}

// AddLine adds a line for the product matching ref, by part number first and
// then by name. A zero price uses the product's price.
func (s *InvoiceService) AddLine(d *domain.Draft, ref string, qty int, price decimal.Decimal) error {
	p, ok := s.state.ProductByPartNumber(ref)
	if !ok {
		p, ok = s.state.ProductByName(ref)
	}
	if !ok {
		return fmt.Errorf("product %s: %w", strings.TrimSpace(ref), domain.ErrNotFound)
	}
	return d.AddLine(p, qty, price)
}

// SetCustomer attaches the cached customer named name. Blank means walk-in.
func (s *InvoiceService) SetCustomer(d *domain.Draft, name string) error {
	if strings.TrimSpace(name) == "" {
		d.CustomerID = nil
		return nil
	}
	c, ok := s.state.CustomerByName(name)
	if !ok {
		return fmt.Errorf("customer %s: %w", strings.TrimSpace(name), domain.ErrNotFound)
	}
	id := c.ID
	d.CustomerID = &id
	return nil
}

// Commit writes the draft as one invoice. The header, every line and every
// stock decrement share a transaction; any failure discards all of them.
// On success the draft is reset.
func (s *InvoiceService) Commit(ctx context.Context, d *domain.Draft) (*domain.InvoiceWithLines, error) {
	start := time.Now()

	if d == nil || len(d.Lines) == 0 {
		return nil, domain.ErrEmptyInvoice
	}

	for i, l := range d.Lines {
		if l.Qty <= 0 {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("line %d qty", i+1), Message: "must be positive"}
		}
		if l.Price.IsNegative() {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("line %d price", i+1), Message: "cannot be negative"}
		}
	}

	if err := s.preflight(d); err != nil {
		s.metrics.ObserveError("invoice.commit", err)
		s.logger.WarnContext(ctx, "invoice rejected by stock check", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.clock()
	inv := domain.Invoice{
		Number:     strings.TrimSpace(d.Number),
		Date:       strings.TrimSpace(d.Date),
		CustomerID: d.CustomerID,
		Total:      d.Total(),
	}
	if inv.Number == "" {
		inv.Number = domain.DefaultInvoiceNumber(now)
	}
	if inv.Date == "" {
		inv.Date = now.Format(domain.DateLayout)
	}
	if inv.CustomerID != nil {
		if _, ok := s.state.Customer(*inv.CustomerID); !ok {
			return nil, &domain.ValidationError{Field: "customer", Message: "does not exist"}
		}
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ctx = applog.WithInvoice(ctx, inv.Number)

	result := &domain.InvoiceWithLines{}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		id, err := tx.Invoices().Insert(ctx, &inv)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}
		inv.ID = id

		lines := make([]domain.InvoiceLine, 0, len(d.Lines))
		for _, dl := range d.Lines {
			productID := dl.ProductID
			line := domain.InvoiceLine{
				InvoiceID:  id,
				ProductID:  &productID,
				PartNumber: dl.PartNumber,
				Name:       dl.Name,
				Qty:        dl.Qty,
				Price:      dl.Price,
			}
			lineID, err := tx.InvoiceLines().Insert(ctx, &line)
			if err != nil {
				return fmt.Errorf("failed to insert line %s: %w", dl.PartNumber, err)
			}
			line.ID = lineID

			if _, err := tx.Products().AdjustStock(ctx, dl.ProductID, -dl.Qty); err != nil {
				if isNotFound(err) {
					return &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{
						ProductID:  dl.ProductID,
						PartNumber: dl.PartNumber,
						Requested:  dl.Qty,
					}}}
				}
				return fmt.Errorf("failed to decrement stock for %s: %w", dl.PartNumber, err)
			}

			lines = append(lines, line)
		}

		result.Invoice = inv
		result.Lines = lines
		return nil
	})
	if err != nil {
		s.metrics.ObserveError("invoice.commit", err)
		s.logger.ErrorContext(ctx, "invoice commit rolled back", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.InvoiceCommitted(len(result.Lines), time.Since(start))
	s.logger.InfoContext(ctx, "invoice committed",
		slog.Int64("id", result.ID),
		slog.Int("lines", len(result.Lines)),
		slog.String("total", domain.FormatMoney(result.Total)),
		slog.Duration("duration_ms", time.Since(start)))

	d.Reset(s.clock())

	if err := s.reload(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// preflight checks the draft against cached stock, one entry per product
// in the order the product first appears.
func (s *InvoiceService) preflight(d *domain.Draft) error {
	requested := d.QuantityByProduct()
	seen := make(map[int64]bool, len(requested))

	var shortfalls []domain.Shortfall
	for _, l := range d.Lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true

		qty := requested[l.ProductID]
		p, ok := s.state.Product(l.ProductID)
		if ok && p.Stock >= qty {
			continue
		}

		sf := domain.Shortfall{ProductID: l.ProductID, PartNumber: l.PartNumber, Requested: qty}
		if ok {
			sf.PartNumber = p.PartNumber
			sf.Available = p.Stock
		}
		shortfalls = append(shortfalls, sf)
	}

	if len(shortfalls) > 0 {
		return &domain.InsufficientStockError{Shortfalls: shortfalls}
	}
	return nil
}

// List returns cached invoices, newest first
func (s *InvoiceService) List() []domain.Invoice {
	return s.state.Invoices()
}

// Get loads an invoice with its lines from the store
func (s *InvoiceService) Get(ctx context.Context, id int64) (*domain.InvoiceWithLines, error) {
	inv, err := s.store.Invoices().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	lines, err := s.store.InvoiceLines().ListByInvoice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice lines: %w", err)
	}
	return &domain.InvoiceWithLines{Invoice: *inv, Lines: lines}, nil
}

// Find resolves ref as an id first and then as an invoice number
func (s *InvoiceService) Find(ctx context.Context, ref string) (*domain.InvoiceWithLines, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		out, err := s.Get(ctx, id)
		if err == nil || !isNotFound(err) {
			return out, err
		}
	}

	inv, err := s.store.Invoices().FindByNumber(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s: %w", ref, domain.ErrNotFound)
	}
	return s.Get(ctx, inv.ID)
}

// ImportRemap translates foreign keys from an exported source onto the ids
// assigned when that source's customers and products were imported.
// A nil map leaves the ids as they are.
type ImportRemap struct {
	Customers map[int64]int64
	Products  map[int64]int64
}

// Import inserts invoice headers and lines as given. Stock is not touched.
func (s *InvoiceService) Import(ctx context.Context, headers []domain.Invoice, lines []domain.InvoiceLine, remap ImportRemap) (*ImportReport, *ImportReport, error) {
	var invReport, lineReport *ImportReport
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		invReport, lineReport, err = s.importTx(ctx, tx, headers, lines, remap)
		return err
	})
	if err != nil {
		s.metrics.ObserveError("invoice.import", err)
		return nil, nil, err
	}

	s.metrics.Imported(string(KindInvoices), invReport.Created, invReport.Updated)
	s.metrics.Imported(string(KindInvoiceItems), lineReport.Created, lineReport.Updated)

	if err := s.reload(ctx); err != nil {
		return invReport, lineReport, err
	}
	return invReport, lineReport, nil
}

// importTx writes through tx. An incoming invoice that matches one stored
// before the import began, on number, date and total, is kept as is and its
// lines are skipped, so importing twice is harmless. Rows of the same batch
// are never matched against each other.
func (s *InvoiceService) importTx(ctx context.Context, tx ports.Store, headers []domain.Invoice, lines []domain.InvoiceLine, remap ImportRemap) (*ImportReport, *ImportReport, error) {
	invReport := newImportReport(KindInvoices)
	lineReport := newImportReport(KindInvoiceItems)
	existing := make(map[int64]bool)
	now := s.clock()

	stored, err := tx.Invoices().GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored invoices: %w", err)
	}
	prior := make(map[string][]int64, len(stored))
	for _, inv := range stored {
		k := importKey(inv)
		prior[k] = append(prior[k], inv.ID)
	}

	for i := range headers {
		h := headers[i]
		sourceID := h.ID
		h.ID = 0
		h.Number = strings.TrimSpace(h.Number)
		if h.Number == "" {
			h.Number = fmt.Sprintf("IMP-%d-%d", now.UnixMilli(), i+1)
		}
		if strings.TrimSpace(h.Date) == "" {
			h.Date = now.Format(domain.DateLayout)
		}
		h.CustomerID = remapID(h.CustomerID, remap.Customers)

		if err := h.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invoice row %d: %w", i+1, err)
		}

		if ids := prior[importKey(h)]; len(ids) > 0 {
			prior[importKey(h)] = ids[1:]
			invReport.Skipped++
			if sourceID != 0 {
				invReport.IDMap[sourceID] = ids[0]
				existing[sourceID] = true
			}
			continue
		}

		id, err := tx.Invoices().Insert(ctx, &h)
		if err != nil {
			return nil, nil, fmt.Errorf("invoice row %d: %w", i+1, err)
		}
		invReport.Created++
		if sourceID != 0 {
			invReport.IDMap[sourceID] = id
		}
	}

	for i := range lines {
		l := lines[i]
		sourceID := l.ID
		invoiceID, ok := invReport.IDMap[l.InvoiceID]
		if !ok || existing[l.InvoiceID] {
			if !ok {
				s.logger.WarnContext(ctx, "invoice line has no imported invoice",
					slog.Int("row", i+1),
					slog.Int64("invoice_id", l.InvoiceID))
			}
			lineReport.Skipped++
			continue
		}

		l.ID = 0
		l.InvoiceID = invoiceID
		l.ProductID = remapID(l.ProductID, remap.Products)
		if err := l.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}

		id, err := tx.InvoiceLines().Insert(ctx, &l)
		if err != nil {
			return nil, nil, fmt.Errorf("invoice item row %d: %w", i+1, err)
		}
		lineReport.Created++
		if sourceID != 0 {
			lineReport.IDMap[sourceID] = id
		}
	}

	return invReport, lineReport, nil
}

// importKey identifies an invoice across an export and re-import
func importKey(inv domain.Invoice) string {
	return strings.ToLower(strings.TrimSpace(inv.Number)) + "|" + inv.Date + "|" + inv.Total.StringFixed(2)
}

func (s *InvoiceService) reload(ctx context.Context) error {
	var errs []error
	if err := s.state.ReloadProducts(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refresh products: %w", err))
	}
	if err := s.state.ReloadInvoices(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refresh invoices: %w", err))
	}
	return errors.Join(errs...)
}

// remapID translates id through m. Ids missing from a non-nil map are
// dropped since they point at nothing in this store.
func remapID(id *int64, m map[int64]int64) *int64 {
	if id == nil || m == nil {
		return id
	}
	if to, ok := m[*id]; ok {
		return &to
	}
	return nil
}
