//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/partsdesk/internal/cli"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
)

type WorkflowE2ESuite struct {
	suite.Suite
	dir string
}

func TestWorkflowE2ESuite(t *testing.T) {
	suite.Run(t, new(WorkflowE2ESuite))
}

func (s *WorkflowE2ESuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.T().Setenv("PARTSDESK_APP_ENVIRONMENT", "test")
	s.T().Setenv("PARTSDESK_LOG_LEVEL", "error")
	s.T().Setenv("PARTSDESK_BACKUP_DIR", filepath.Join(s.dir, "backups"))
	s.useDatabase("shop.db")
}

func (s *WorkflowE2ESuite) useDatabase(name string) {
	s.T().Setenv("PARTSDESK_DATABASE_PATH", filepath.Join(s.dir, name))
}

func (s *WorkflowE2ESuite) run(args ...string) string {
	s.T().Helper()

	out, err := s.exec(args...)
	s.Require().NoError(err, "partsdesk %v", args)
	return out
}

func (s *WorkflowE2ESuite) exec(args ...string) (string, error) {
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *WorkflowE2ESuite) decode(out string, v interface{}) {
	s.Require().NoError(json.Unmarshal([]byte(out), v), out)
}

func (s *WorkflowE2ESuite) TestSellBackupAndRestore() {
	// 1. Start a shop with the starter data
	s.run("init")

	// 2. Stock a new part from a new supplier
	s.run("supplier", "add", "--name", "Harbor Freight Parts", "--phone", "555-0300")
	s.run("product", "add", "--part", "ALT-900", "--name", "Alternator",
		"--supplier", "Harbor Freight Parts", "--cost", "80", "--price", "145", "--stock", "3", "--low", "1")

	// 3. Sell to a known customer and to a walk-in
	out := s.run("invoice", "create", "--number", "INV-100", "--customer", "Acme Auto",
		"--line", "ALT-900:2", "--line", "BRK-123:1:30")
	s.Contains(out, "Bill to: Acme Auto")
	s.Contains(out, "320.00")

	s.run("invoice", "create", "--number", "INV-101", "--line", "SPK-789:4")

	var low []domain.Product
	s.decode(s.run("-o", "json", "product", "lowstock"), &low)
	s.Require().Len(low, 1)
	s.Equal("ALT-900", low[0].PartNumber)

	// 4. Overselling leaves everything as it was
	_, err := s.exec("invoice", "create", "--line", "ALT-900:2")
	s.Equal(cli.ExitInsufficient, cli.ExitCode(err))

	// 5. Back up, then restore into a fresh database
	var backup struct {
		Key string `json:"key"`
	}
	s.decode(s.run("-o", "json", "backup", "--keep", "3"), &backup)
	s.Contains(backup.Key, ".xlsx")

	s.useDatabase("replacement.db")

	var reports []services.ImportReport
	s.decode(s.run("-o", "json", "restore"), &reports)
	created := map[services.Kind]int{}
	for _, r := range reports {
		created[r.Kind] = r.Created
	}
	s.Equal(4, created[services.KindProducts])
	s.Equal(3, created[services.KindSuppliers])
	s.Equal(2, created[services.KindInvoices])
	s.Equal(3, created[services.KindInvoiceItems])

	// 6. The restored shop matches the original
	var invoices []domain.Invoice
	s.decode(s.run("-o", "json", "invoice", "list"), &invoices)
	s.Require().Len(invoices, 2)

	var inv domain.InvoiceWithLines
	s.decode(s.run("-o", "json", "invoice", "show", "INV-100"), &inv)
	s.Equal("320", inv.Total.String())
	s.Require().Len(inv.Lines, 2)
	s.Equal("ALT-900", inv.Lines[0].PartNumber)

	var products []domain.Product
	s.decode(s.run("-o", "json", "product", "list", "--search", "ALT"), &products)
	s.Require().Len(products, 1)
	s.Equal(1, products[0].Stock)
	s.Equal("Harbor Freight Parts", products[0].Supplier)
}

func (s *WorkflowE2ESuite) TestSpreadsheetRoundTrip() {
	s.run("init")
	s.run("product", "stock", "FLT-456", "5")

	path := filepath.Join(s.dir, "products.xlsx")
	s.run("export", "--kind", "products", "--out", path)

	s.useDatabase("other.db")
	var reports []services.ImportReport
	s.decode(s.run("-o", "json", "import", "--kind", "products", "--in", path), &reports)
	s.Require().Len(reports, 1)
	s.Equal(3, reports[0].Created)

	var products []domain.Product
	s.decode(s.run("-o", "json", "product", "list", "--search", "FLT-456"), &products)
	s.Require().Len(products, 1)
	s.Equal(55, products[0].Stock)
}
