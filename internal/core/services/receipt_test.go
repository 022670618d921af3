package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
)

func TestReceiptBusinessName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "blank", in: "   ", want: "Invoice"},
		{name: "default_business", in: "Automotive Junction Autoparts", want: "AJ Autoparts"},
		{name: "short_kept", in: "Brake Barn", want: "Brake Barn"},
		{name: "exactly_thirty", in: "Thirty Characters Exactly Here", want: "Thirty Characters Exactly Here"},
		{name: "long_uses_initials", in: "Northwest Regional Brake and Clutch", want: "NR Brake and Clutch"},
		{name: "long_two_words", in: "Intercontinental Transmissionworks", want: "IT"},
		{name: "long_single_word", in: "Supercalifragilisticexpialidocious", want: "Supercalifragilisticexpialidocious"},
		{name: "initials_keep_case", in: "northwest regional brake and clutch", want: "nr brake and clutch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ReceiptBusinessName(tt.in))
		})
	}
}

func TestInvoiceService_Receipt(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	d := f.invoices.NewDraft()
	d.Number = "INV-7"
	require.NoError(t, f.invoices.SetCustomer(d, "Acme Auto"))
	require.NoError(t, f.invoices.AddLine(d, "BRK-123", 2, decimal.Zero))
	require.NoError(t, f.invoices.AddLine(d, "SPK-789", 4, decimal.RequireFromString("6")))
	inv, err := f.invoices.Commit(ctx, d)
	require.NoError(t, err)

	receipt, err := f.invoices.Receipt(ctx, inv.ID)
	require.NoError(t, err)

	lines := strings.Split(receipt, "\n")
	assert.Equal(t, "AJ Autoparts", lines[0])
	assert.Contains(t, receipt, "Invoice: INV-7")
	assert.Contains(t, receipt, "Date:    2024-03-01")
	assert.Contains(t, receipt, "Bill to: Acme Auto\n         555-0101\n")
	assert.Contains(t, receipt, "Brake Pad Set")
	assert.Contains(t, receipt, "70.00")
	assert.Contains(t, receipt, "24.00")
	assert.Contains(t, receipt, "94.00")
	assert.Contains(t, receipt, "Thank you for your business!")

	_, err = f.invoices.Receipt(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceService_ReceiptWalkInAndCustomFooter(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	require.NoError(t, f.settings.Set(ctx, domain.SettingBusinessName, "Brake Barn"))
	require.NoError(t, f.settings.Set(ctx, domain.SettingInvoiceFooter, ""))

	d := f.invoices.NewDraft()
	require.NoError(t, f.invoices.AddLine(d, "FLT-456", 1, decimal.Zero))
	inv, err := f.invoices.Commit(ctx, d)
	require.NoError(t, err)

	receipt, err := f.invoices.Receipt(ctx, inv.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt, "Brake Barn\n"))
	assert.Contains(t, receipt, "Bill to: Walk-in\n\n")
	assert.Contains(t, receipt, "9.50")
	assert.NotContains(t, receipt, "Thank you")
}

func TestInvoiceService_ReceiptCustomerContact(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		customer domain.Customer
		want     []string
	}{
		{
			name:     "address_and_phone",
			customer: domain.Customer{Name: "Dana's Garage", Address: "12 Main St", Phone: "555-0142"},
			want:     []string{"Bill to: Dana's Garage\n", "         12 Main St\n", "         555-0142\n"},
		},
		{
			name:     "phone_only",
			customer: domain.Customer{Name: "Eli Ruiz", Phone: "555-0177"},
			want:     []string{"Bill to: Eli Ruiz\n         555-0177\n\n"},
		},
		{
			name:     "no_contact",
			customer: domain.Customer{Name: "Fay Moss"},
			want:     []string{"Bill to: Fay Moss\n\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.customer
			require.NoError(t, f.customers.Create(ctx, &c))

			d := f.invoices.NewDraft()
			require.NoError(t, f.invoices.SetCustomer(d, c.Name))
			require.NoError(t, f.invoices.AddLine(d, "FLT-456", 1, decimal.Zero))
			inv, err := f.invoices.Commit(ctx, d)
			require.NoError(t, err)

			receipt, err := f.invoices.Receipt(ctx, inv.ID)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, receipt, w)
			}
		})
	}
}
