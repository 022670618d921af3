// internal/core/domain/invoice.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an immutable sales header. A nil CustomerID means a walk-in sale.
type Invoice struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number" validate:"required"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	CustomerID *int64          `json:"customerId,omitempty"`
	Total      decimal.Decimal `json:"total" validate:"gte=0"`
}

func (i *Invoice) Validate() error {
	i.Number = strings.TrimSpace(i.Number)
	i.Date = strings.TrimSpace(i.Date)
	return validateStruct(i)
}

// IsWalkIn reports whether the invoice has no customer record.
func (i *Invoice) IsWalkIn() bool {
	return i.CustomerID == nil
}

// InvoiceLine is one sold product. PartNumber, Name and Price are copies taken at sale time.
type InvoiceLine struct {
	ID         int64           `json:"id"`
	InvoiceID  int64           `json:"invoiceId" validate:"required"`
	ProductID  *int64          `json:"productId,omitempty"`
	PartNumber string          `json:"partNumber"`
	Name       string          `json:"name"`
	Qty        int             `json:"qty" validate:"gte=0"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
}

func (l *InvoiceLine) Validate() error {
	return validateStruct(l)
}

// Amount is qty times unit price.
func (l *InvoiceLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// InvoiceWithLines pairs a header with its lines.
type InvoiceWithLines struct {
	Invoice
	Lines []InvoiceLine `json:"lines"`
}

// DraftLine is an unsaved bill line.
type DraftLine struct {
	ProductID  int64
	PartNumber string
	Name       string
	Qty        int
	Price      decimal.Decimal
}

// Amount is qty times unit price.
func (l DraftLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Draft is the bill being assembled before commit.
type Draft struct {
	Number     string
	Date       string
	CustomerID *int64
	Lines      []DraftLine
}

// NewDraft returns an empty draft dated on the given day.
func NewDraft(today time.Time) *Draft {
	return &Draft{Date: today.Format(DateLayout)}
}

// AddLine appends a line for p, snapshotting its part number and name.
// A zero price falls back to the product's current price.
func (d *Draft) AddLine(p Product, qty int, price decimal.Decimal) error {
	if qty <= 0 {
		return &ValidationError{Field: "qty", Message: "must be positive"}
	}
	if price.IsNegative() {
		return &ValidationError{Field: "price", Message: "cannot be negative"}
	}
	if price.IsZero() {
		price = p.Price
	}

	d.Lines = append(d.Lines, DraftLine{
		ProductID:  p.ID,
		PartNumber: p.PartNumber,
		Name:       p.Name,
		Qty:        qty,
		Price:      price,
	})
	return nil
}

// RemoveLine drops the line at index i.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.Lines) {
		return fmt.Errorf("line %d: %w", i, ErrNotFound)
	}
	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	return nil
}

// Total sums every line. There is no tax.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// QuantityByProduct sums requested quantities per product id.
func (d *Draft) QuantityByProduct() map[int64]int {
	qty := make(map[int64]int, len(d.Lines))
	for _, l := range d.Lines {
		qty[l.ProductID] += l.Qty
	}
	return qty
}

// Reset clears the draft and re-dates it.
func (d *Draft) Reset(today time.Time) {
	*d = Draft{Date: today.Format(DateLayout)}
}

// DefaultInvoiceNumber derives a number from the last six digits of the millisecond clock.
func DefaultInvoiceNumber(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "INV-" + ms
}

// FormatMoney renders an amount with two fraction digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseMoney reads an amount, treating blank as zero.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a number", s)}
	}
	return d, nil
}
