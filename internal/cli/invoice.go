// internal/cli/invoice.go
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// NewInvoiceCommand creates the invoice command group
func NewInvoiceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"invoices"},
		Short:   "Create and view invoices",
	}

	cmd.AddCommand(newInvoiceCreateCommand(rootOpts))
	cmd.AddCommand(newInvoiceListCommand(rootOpts))
	cmd.AddCommand(newInvoiceShowCommand(rootOpts))

	return cmd
}

func newInvoiceCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		lines    []string
		customer string
		number   string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Commit an invoice and decrement stock",
		Example: `  partsdesk invoice create --line BRK-123:2 --line FLT-456:1:9.50
  partsdesk invoice create --customer "John Doe" --line "Spark Plug:4"`,
		Args: cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			draft := app.Invoices.NewDraft()
			draft.Number = number
			if date != "" {
				draft.Date = date
			}
			if err := app.Invoices.SetCustomer(draft, customer); err != nil {
				return err
			}

			for _, spec := range lines {
				ref, qty, price, err := parseLineSpec(spec)
				if err != nil {
					return err
				}
				if err := app.Invoices.AddLine(draft, ref, qty, price); err != nil {
					return err
				}
			}

			inv, err := app.Invoices.Commit(ctx, draft)
			if err != nil && inv == nil {
				return err
			}
			if err != nil {
				app.Logger.WarnContext(ctx, "invoice saved but cache refresh failed")
			}

			return printInvoice(ctx, cmd, rootOpts, app, inv)
		}),
	}

	cmd.Flags().StringArrayVar(&lines, "line", nil, "PART:QTY[:PRICE], repeatable")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name, blank for walk-in")
	cmd.Flags().StringVar(&number, "number", "", "invoice number (default INV-<digits>)")
	cmd.Flags().StringVar(&date, "date", "", "invoice date YYYY-MM-DD (default today)")

	return cmd
}

func newInvoiceListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			invoices := app.Invoices.List()

			out := cmd.OutOrStdout()
			if rootOpts.Output == "json" {
				return writeJSON(out, invoices)
			}

			t := newTable(out, "ID", "NUMBER", "DATE", "CUSTOMER", "ITEMS", "TOTAL")
			for _, inv := range invoices {
				t.row(
					strconv.FormatInt(inv.ID, 10),
					inv.Number,
					inv.Date,
					customerName(app, inv.CustomerID),
					strconv.Itoa(len(app.State.InvoiceLines(inv.ID))),
					domain.FormatMoney(inv.Total),
				)
			}
			return t.flush()
		}),
	}
}

func newInvoiceShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|number>",
		Short: "Print an invoice receipt",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			inv, err := app.Invoices.Find(ctx, args[0])
			if err != nil {
				return err
			}
			return printInvoice(ctx, cmd, rootOpts, app, inv)
		}),
	}
}

func printInvoice(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, app *App, inv *domain.InvoiceWithLines) error {
	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		return writeJSON(out, inv)
	}

	receipt, err := app.Invoices.Receipt(ctx, inv.ID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, receipt)
	return err
}

func customerName(app *App, id *int64) string {
	if id == nil {
		return "Walk-in"
	}
	if c, ok := app.State.Customer(*id); ok {
		return c.Name
	}
	return fmt.Sprintf("#%d", *id)
}

// parseLineSpec splits PART:QTY[:PRICE]. The part may itself contain colons
// only when a price is given.
func parseLineSpec(spec string) (string, int, decimal.Decimal, error) {
	invalid := &domain.ValidationError{Field: "line", Message: fmt.Sprintf("%q must be PART:QTY[:PRICE]", spec)}

	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return "", 0, decimal.Zero, invalid
	}

	// a trailing price only counts when the segment before it is a quantity
	price := decimal.Zero
	if n := len(parts); n >= 3 {
		if _, err := strconv.Atoi(strings.TrimSpace(parts[n-2])); err == nil {
			if p, err := decimal.NewFromString(strings.TrimSpace(parts[n-1])); err == nil {
				price = p
				parts = parts[:n-1]
			}
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return "", 0, decimal.Zero, invalid
	}
	ref := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	if ref == "" {
		return "", 0, decimal.Zero, invalid
	}

	return ref, qty, price, nil
}
