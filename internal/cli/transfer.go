// internal/cli/transfer.go
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/adapters/spreadsheet"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/core/services"
)

// kindAll selects every collection in one workbook
const kindAll = "all"

type transferOptions struct {
	kind   string
	format string
	path   string
	items  string
}

// codecFor picks a codec from the explicit format or the file extension
func codecFor(format, path string) (ports.TableCodec, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "csv", "":
		return spreadsheet.CSVCodec{}, nil
	case "xlsx":
		return spreadsheet.XLSXCodec{}, nil
	default:
		return nil, &domain.ValidationError{Field: "format", Message: fmt.Sprintf("%q must be csv or xlsx", format)}
	}
}

// NewExportCommand creates the export command
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a collection to CSV or XLSX",
		Example: `  partsdesk export --kind products --out products.csv
  partsdesk export --kind invoices --out invoices.xlsx
  partsdesk export --kind all --out everything.xlsx`,
		Args: cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			codec, err := codecFor(opts.format, opts.path)
			if err != nil {
				return err
			}
			_, isXLSX := codec.(spreadsheet.XLSXCodec)

			var tables []domain.Table
			switch {
			case opts.kind == kindAll:
				if !isXLSX {
					return &domain.ValidationError{Field: "kind", Message: "all requires xlsx"}
				}
				tables, err = app.Transfer.ExportAll()
			default:
				kind, kerr := services.ParseKind(opts.kind)
				if kerr != nil {
					return &domain.ValidationError{Field: "kind", Message: kerr.Error()}
				}
				var t domain.Table
				t, err = app.Transfer.Export(kind)
				tables = []domain.Table{t}
				if err == nil && kind == services.KindInvoices && isXLSX {
					var items domain.Table
					items, err = app.Transfer.Export(services.KindInvoiceItems)
					tables = append(tables, items)
				}
			}
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := codec.Encode(&buf, tables); err != nil {
				return err
			}

			if opts.path == "" || opts.path == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(opts.path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.path, err)
			}

			rows := 0
			for _, t := range tables {
				rows += len(t.Rows)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", rows, opts.path)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "products, customers, suppliers, invoices, invoiceItems or all")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv or xlsx (default from --out extension)")
	cmd.Flags().StringVar(&opts.path, "out", "", "output file, stdout when empty")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

// NewImportCommand creates the import command
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert rows from CSV or XLSX",
		Long: `Products match on part number, customers and suppliers on name.
Matched rows are updated, the rest are created. Invoices are inserted as
given without touching stock; an invoice whose number already exists is
skipped along with its items.`,
		Example: `  partsdesk import --kind products --in products.csv
  partsdesk import --kind invoices --in invoices.csv --items items.csv
  partsdesk import --kind all --in everything.xlsx`,
		Args: cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			codec, err := codecFor(opts.format, opts.path)
			if err != nil {
				return err
			}

			tables, err := readTables(codec, opts.path)
			if err != nil {
				return err
			}

			var reports []*services.ImportReport
			switch {
			case opts.kind == kindAll:
				byKind, err := app.Transfer.ImportWorkbook(ctx, tables)
				if err != nil {
					return err
				}
				for _, k := range services.Kinds() {
					if r, ok := byKind[k]; ok {
						reports = append(reports, r)
					}
				}

			default:
				kind, kerr := services.ParseKind(opts.kind)
				if kerr != nil {
					return &domain.ValidationError{Field: "kind", Message: kerr.Error()}
				}

				if kind == services.KindInvoices {
					invoices, items, err := invoiceTables(codec, tables, opts.items)
					if err != nil {
						return err
					}
					invReport, lineReport, err := app.Transfer.ImportInvoices(ctx, invoices, items, services.ImportRemap{})
					if err != nil {
						return err
					}
					reports = append(reports, invReport, lineReport)
					break
				}

				report, err := app.Transfer.Import(ctx, kind, tables[0])
				if err != nil {
					return err
				}
				reports = append(reports, report)
			}

			return printReports(cmd, rootOpts, reports)
		}),
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "products, customers, suppliers, invoices or all")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv or xlsx (default from --in extension)")
	cmd.Flags().StringVar(&opts.path, "in", "", "input file")
	cmd.Flags().StringVar(&opts.items, "items", "", "invoice items CSV for --kind invoices")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func readTables(codec ports.TableCodec, path string) ([]domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tables, err := codec.Decode(f)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "contains no tables"}
	}
	return tables, nil
}

// invoiceTables finds the invoice and item tables. Workbooks carry both as
// named sheets; CSV items come from a second file.
func invoiceTables(codec ports.TableCodec, tables []domain.Table, itemsPath string) (domain.Table, domain.Table, error) {
	if _, ok := codec.(spreadsheet.XLSXCodec); ok {
		var invoices, items domain.Table
		var found bool
		for _, t := range tables {
			switch {
			case strings.EqualFold(t.Name, services.SheetName(services.KindInvoices)):
				invoices, found = t, true
			case strings.EqualFold(t.Name, services.SheetName(services.KindInvoiceItems)):
				items = t
			}
		}
		if !found {
			return domain.Table{}, domain.Table{}, &domain.ValidationError{Field: "file", Message: "has no Invoices sheet"}
		}
		return invoices, items, nil
	}

	if itemsPath == "" {
		return tables[0], domain.Table{}, nil
	}
	itemTables, err := readTables(codec, itemsPath)
	if err != nil {
		return domain.Table{}, domain.Table{}, err
	}
	return tables[0], itemTables[0], nil
}

func printReports(cmd *cobra.Command, rootOpts *RootOptions, reports []*services.ImportReport) error {
	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		return writeJSON(out, reports)
	}
	t := newTable(out, "KIND", "CREATED", "UPDATED", "SKIPPED")
	for _, r := range reports {
		t.row(string(r.Kind), fmt.Sprint(r.Created), fmt.Sprint(r.Updated), fmt.Sprint(r.Skipped))
	}
	return t.flush()
}
