package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

func intPtr(n int) *int { return &n }

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   *domain.Product
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_product",
			product: &domain.Product{
				PartNumber: "  BRK-123 ",
				Name:       "Brake Pad Set",
				Cost:       decimal.NewFromInt(20),
				Price:      decimal.NewFromInt(35),
				Stock:      25,
			},
		},
		{
			name:      "missing_part_number",
			product:   &domain.Product{Name: "Brake Pad Set"},
			wantError: true,
			errorMsg:  "partNumber is required",
		},
		{
			name:      "blank_name",
			product:   &domain.Product{PartNumber: "BRK-123", Name: "   "},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name:      "negative_cost",
			product:   &domain.Product{PartNumber: "BRK-123", Name: "Pads", Cost: decimal.NewFromInt(-1)},
			wantError: true,
			errorMsg:  "cost cannot be negative",
		},
		{
			name:      "negative_stock",
			product:   &domain.Product{PartNumber: "BRK-123", Name: "Pads", Stock: -3},
			wantError: true,
			errorMsg:  "stock cannot be negative",
		},
		{
			name:      "negative_threshold",
			product:   &domain.Product{PartNumber: "BRK-123", Name: "Pads", LowThreshold: intPtr(-1)},
			wantError: true,
			errorMsg:  "lowThreshold cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "BRK-123", tt.product.PartNumber)
		})
	}
}

func TestProduct_IsLowStock(t *testing.T) {
	tests := []struct {
		name   string
		stock  int
		own    *int
		global int
		want   bool
	}{
		{name: "above_global", stock: 6, global: 5, want: false},
		{name: "at_global", stock: 5, global: 5, want: true},
		{name: "own_overrides_global", stock: 8, own: intPtr(10), global: 5, want: true},
		{name: "own_zero", stock: 1, own: intPtr(0), global: 5, want: false},
		{name: "empty_with_zero", stock: 0, own: intPtr(0), global: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Product{Stock: tt.stock, LowThreshold: tt.own}
			assert.Equal(t, tt.want, p.IsLowStock(tt.global))
		})
	}
}

func TestDraft(t *testing.T) {
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	d := domain.NewDraft(day)
	assert.Equal(t, "2024-03-01", d.Date)

	pads := domain.Product{ID: 1, PartNumber: "BRK-123", Name: "Brake Pad Set", Price: decimal.NewFromInt(35)}
	plug := domain.Product{ID: 3, PartNumber: "SPK-789", Name: "Spark Plug", Price: decimal.RequireFromString("6.5")}

	require.NoError(t, d.AddLine(pads, 2, decimal.Zero))
	require.NoError(t, d.AddLine(plug, 4, decimal.RequireFromString("6")))
	require.NoError(t, d.AddLine(pads, 1, decimal.Zero))

	assert.Equal(t, "35", d.Lines[0].Price.String())
	assert.Equal(t, "6", d.Lines[1].Price.String())
	assert.Equal(t, "129.00", domain.FormatMoney(d.Total()))
	assert.Equal(t, map[int64]int{1: 3, 3: 4}, d.QuantityByProduct())

	assert.ErrorIs(t, d.AddLine(pads, 0, decimal.Zero), domain.ErrValidation)
	assert.ErrorIs(t, d.AddLine(pads, 1, decimal.NewFromInt(-1)), domain.ErrValidation)

	require.NoError(t, d.RemoveLine(1))
	assert.Len(t, d.Lines, 2)
	assert.ErrorIs(t, d.RemoveLine(5), domain.ErrNotFound)

	d.Reset(day.AddDate(0, 0, 1))
	assert.Empty(t, d.Lines)
	assert.Equal(t, "2024-03-02", d.Date)
}

func TestInvoice_Validate(t *testing.T) {
	inv := &domain.Invoice{Number: " INV-1 ", Date: "2024-03-01", Total: decimal.NewFromInt(10)}
	require.NoError(t, inv.Validate())
	assert.Equal(t, "INV-1", inv.Number)
	assert.True(t, inv.IsWalkIn())

	bad := &domain.Invoice{Number: "INV-2", Date: "01/03/2024"}
	err := bad.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestDefaultInvoiceNumber(t *testing.T) {
	now := time.UnixMilli(1709289000123)
	assert.Equal(t, "INV-000123", domain.DefaultInvoiceNumber(now))
}

func TestParseMoney(t *testing.T) {
	d, err := domain.ParseMoney(" 9.50 ")
	require.NoError(t, err)
	assert.Equal(t, "9.50", domain.FormatMoney(d))

	d, err = domain.ParseMoney("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = domain.ParseMoney("nine")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSettings(t *testing.T) {
	s := domain.Settings{}
	assert.Equal(t, 5, s.LowStockThreshold())
	assert.Equal(t, "Automotive Junction Autoparts", s.BusinessName())

	s[domain.SettingLowStockThreshold] = "12"
	assert.Equal(t, 12, s.LowStockThreshold())

	s[domain.SettingLowStockThreshold] = "garbage"
	assert.Equal(t, 5, s.LowStockThreshold())

	s[domain.SettingInvoiceFooter] = ""
	assert.Equal(t, "", s.InvoiceFooter())

	clone := s.Clone()
	clone[domain.SettingTheme] = "light"
	assert.Equal(t, "dark", s.Theme())
}

func TestTable_Records(t *testing.T) {
	table := domain.Table{
		Header: []string{"partNumber", " name ", "stock"},
		Rows: [][]string{
			{"BRK-123", " Brake Pad Set ", "25"},
			{"FLT-456"},
			{"", " ", ""},
		},
	}

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, map[string]string{"partNumber": "BRK-123", "name": "Brake Pad Set", "stock": "25"}, records[0])
	assert.Equal(t, "", records[1]["stock"])

	out := domain.Table{Header: []string{"a", "b"}}
	out.Append(map[string]string{"b": "2", "a": "1", "c": "ignored"})
	assert.Equal(t, [][]string{{"1", "2"}}, out.Rows)
}

func TestErrors(t *testing.T) {
	stock := &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{
		{PartNumber: "SPK-789", Requested: 15, Available: 12},
		{PartNumber: "BRK-123", Requested: 30, Available: 25},
	}}
	assert.Equal(t,
		"insufficient stock for SPK-789 (requested 15, available 12), BRK-123 (requested 30, available 25)",
		stock.Error())
	assert.True(t, errors.Is(stock, domain.ErrInsufficientStock))

	storage := &domain.StorageError{Op: "insert", Err: errors.New("disk full")}
	assert.ErrorIs(t, storage, domain.ErrStorage)
	assert.EqualError(t, errors.Unwrap(storage), "disk full")

	assert.EqualError(t, &domain.ConstraintError{Field: "part number", Value: "BRK-123"}, "duplicate part number: BRK-123")
}
