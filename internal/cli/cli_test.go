package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "validation", err: fmt.Errorf("wrapped: %w", &domain.ValidationError{Field: "name", Message: "is required"}), want: ExitValidation},
		{name: "empty_invoice", err: domain.ErrEmptyInvoice, want: ExitValidation},
		{name: "not_found", err: fmt.Errorf("product X: %w", domain.ErrNotFound), want: ExitNotFound},
		{name: "constraint", err: &domain.ConstraintError{Field: "part number", Value: "BRK-123"}, want: ExitConstraint},
		{name: "insufficient", err: &domain.InsufficientStockError{}, want: ExitInsufficient},
		{name: "storage", err: &domain.StorageError{Op: "insert", Err: errors.New("disk I/O error")}, want: ExitStorage},
		{name: "other", err: errors.New("boom"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation_drops_chain",
			err:  fmt.Errorf("validation failed: %w", &domain.ValidationError{Field: "qty", Message: "must be positive"}),
			want: "invalid input: qty must be positive",
		},
		{
			name: "shortfalls",
			err: fmt.Errorf("commit: %w", &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{
				{PartNumber: "SPK-789", Requested: 15, Available: 12},
			}}),
			want: "insufficient stock for SPK-789 (requested 15, available 12)",
		},
		{
			name: "storage",
			err:  &domain.StorageError{Op: "adjust stock", Err: errors.New("database is locked")},
			want: "the database could not complete the request, nothing was changed (adjust stock)",
		},
		{
			name: "empty_invoice",
			err:  domain.ErrEmptyInvoice,
			want: "the invoice has no lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FriendlyError(tt.err))
		})
	}
}

func TestParseLineSpec(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantRef   string
		wantQty   int
		wantPrice string
		wantErr   bool
	}{
		{name: "part_and_qty", spec: "BRK-123:2", wantRef: "BRK-123", wantQty: 2, wantPrice: "0"},
		{name: "with_price", spec: "FLT-456:1:9.50", wantRef: "FLT-456", wantQty: 1, wantPrice: "9.5"},
		{name: "name_with_spaces", spec: " Spark Plug : 4 ", wantRef: "Spark Plug", wantQty: 4, wantPrice: "0"},
		{name: "part_containing_colon", spec: "AB:12:3", wantRef: "AB", wantQty: 12, wantPrice: "3"},
		{name: "colon_part_without_price", spec: "AB:CD:3", wantRef: "AB:CD", wantQty: 3, wantPrice: "0"},
		{name: "missing_qty", spec: "BRK-123", wantErr: true},
		{name: "bad_qty", spec: "BRK-123:two", wantErr: true},
		{name: "blank_ref", spec: ":2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, qty, price, err := parseLineSpec(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantQty, qty)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(price), "price %s", price)
		})
	}
}

func TestParseRef(t *testing.T) {
	id, key := parseRef(" 42 ")
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "", key)

	id, key = parseRef("BRK-123")
	assert.Zero(t, id)
	assert.Equal(t, "BRK-123", key)

	id, key = parseRef("-1")
	assert.Zero(t, id)
	assert.Equal(t, "-1", key)
}

func TestCodecFor(t *testing.T) {
	c, err := codecFor("", "out/products.XLSX")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", c.Extension())

	c, err = codecFor("", "")
	require.NoError(t, err)
	assert.Equal(t, ".csv", c.Extension())

	_, err = codecFor("ods", "x.ods")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// cliEnv points configuration at a temp directory
func cliEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("PARTSDESK_APP_ENVIRONMENT", "test")
	t.Setenv("PARTSDESK_DATABASE_PATH", filepath.Join(dir, "partsdesk.db"))
	t.Setenv("PARTSDESK_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("PARTSDESK_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_InvoiceWorkflow(t *testing.T) {
	dir := cliEnv(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "starter data added")

	out, err = run(t, "init")
	require.NoError(t, err)
	assert.NotContains(t, out, "starter data added")

	out, err = run(t, "invoice", "create", "--number", "INV-1", "--customer", "John Doe",
		"--line", "BRK-123:2", "--line", "Oil Filter:1")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice: INV-1")
	assert.Contains(t, out, "Bill to: John Doe")
	assert.Contains(t, out, "79.50")

	out, err = run(t, "-o", "json", "product", "list", "--search", "BRK")
	require.NoError(t, err)
	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 1)
	assert.Equal(t, 23, products[0].Stock)

	_, err = run(t, "invoice", "create", "--line", "SPK-789:13")
	require.Error(t, err)
	assert.Equal(t, ExitInsufficient, ExitCode(err))

	_, err = run(t, "invoice", "create")
	assert.Equal(t, ExitValidation, ExitCode(err))

	out, err = run(t, "invoice", "show", "INV-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Brake Pad Set")

	out, err = run(t, "invoice", "list")
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "NUMBER", "DATE", "CUSTOMER", "ITEMS", "TOTAL"}, strings.Fields(rows[0]))
	cells := strings.Fields(rows[1])
	require.Len(t, cells, 7)
	assert.Equal(t, "INV-1", cells[1])
	assert.Equal(t, "2", cells[5])
	assert.Equal(t, "79.50", cells[6])

	csvPath := filepath.Join(dir, "products.csv")
	_, err = run(t, "export", "--kind", "products", "--out", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BRK-123,Brake Pad Set,SilverLine Supplies,20,35,23,5,")
}

func TestCommands_ProductAndSupplier(t *testing.T) {
	cliEnv(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	_, err = run(t, "product", "add", "--part", "brk-123", "--name", "Duplicate")
	assert.Equal(t, ExitConstraint, ExitCode(err))

	out, err := run(t, "product", "stock", "SPK-789", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "20")

	_, err = run(t, "product", "stock", "SPK-789", "--", "-2")
	require.NoError(t, err)
	out, err = run(t, "-o", "json", "product", "lowstock")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	out, err = run(t, "supplier", "rename", "SilverLine Supplies", "Silverline Parts")
	require.NoError(t, err)
	assert.Contains(t, out, "2 products relinked")

	_, err = run(t, "customer", "delete", "Nobody Here")
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = run(t, "settings", "set", "lowStockThreshold", "many")
	assert.Equal(t, ExitValidation, ExitCode(err))

	_, err = run(t, "-o", "yaml", "status")
	assert.Error(t, err)
}
