// internal/pkg/metrics/metrics.go
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

const namespace = "partsdesk"

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	InvoicesCommitted prometheus.Counter
	InvoiceLines      prometheus.Counter
	StockShortfalls   prometheus.Counter
	StorageErrors     *prometheus.CounterVec
	CommitDuration    prometheus.Histogram
	RecordsImported   *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		InvoicesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_committed_total",
			Help:      "Invoices written by the commit workflow.",
		}),
		InvoiceLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_lines_total",
			Help:      "Invoice lines written by the commit workflow.",
		}),
		StockShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_shortfalls_total",
			Help:      "Stock checks rejected for insufficient stock.",
		}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage engine failures by operation.",
		}, []string{"op"}),
		CommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_commit_duration_seconds",
			Help:      "Time spent committing an invoice.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		RecordsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_imported_total",
			Help:      "Rows imported by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(
		m.InvoicesCommitted,
		m.InvoiceLines,
		m.StockShortfalls,
		m.StorageErrors,
		m.CommitDuration,
		m.RecordsImported,
	)

	return m
}

// Registry exposes the registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InvoiceCommitted records a successful commit
func (m *Metrics) InvoiceCommitted(lines int, took time.Duration) {
	if m == nil {
		return
	}
	m.InvoicesCommitted.Inc()
	m.InvoiceLines.Add(float64(lines))
	m.CommitDuration.Observe(took.Seconds())
}

// Shortfall records rejected stock checks
func (m *Metrics) Shortfall(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StockShortfalls.Add(float64(n))
}

// Imported records import outcomes for kind
func (m *Metrics) Imported(kind string, created, updated int) {
	if m == nil {
		return
	}
	m.RecordsImported.WithLabelValues(kind, "created").Add(float64(created))
	m.RecordsImported.WithLabelValues(kind, "updated").Add(float64(updated))
}

// ObserveError counts err against op when it is a storage failure
func (m *Metrics) ObserveError(op string, err error) {
	if m == nil || err == nil {
		return
	}
	if errors.Is(err, domain.ErrStorage) {
		m.StorageErrors.WithLabelValues(op).Inc()
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		m.Shortfall(len(stockErr.Shortfalls))
	}
}

// WriteText dumps every metric in the text exposition format
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
