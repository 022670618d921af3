// internal/cli/product.go
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
)

// productFlags are the editable product fields
type productFlags struct {
	partNumber string
	name       string
	supplier   string
	cost       string
	price      string
	stock      int
	low        int
	notes      string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.partNumber, "part", "", "part number")
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.supplier, "supplier", "", "supplier name")
	cmd.Flags().StringVar(&f.cost, "cost", "", "unit cost")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
	cmd.Flags().IntVar(&f.low, "low", -1, "low-stock threshold (negative clears it)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
}

// apply copies every flag the user set onto p
func (f *productFlags) apply(cmd *cobra.Command, p *domain.Product) error {
	changed := cmd.Flags().Changed

	if changed("part") {
		p.PartNumber = f.partNumber
	}
	if changed("name") {
		p.Name = f.name
	}
	if changed("supplier") {
		p.Supplier = f.supplier
	}
	if changed("cost") {
		cost, err := domain.ParseMoney(f.cost)
		if err != nil {
			return &domain.ValidationError{Field: "cost", Message: "must be a number"}
		}
		p.Cost = cost
	}
	if changed("price") {
		price, err := domain.ParseMoney(f.price)
		if err != nil {
			return &domain.ValidationError{Field: "price", Message: "must be a number"}
		}
		p.Price = price
	}
	if changed("stock") {
		p.Stock = f.stock
	}
	if changed("low") {
		if f.low < 0 {
			p.LowThreshold = nil
		} else {
			low := f.low
			p.LowThreshold = &low
		}
	}
	if changed("notes") {
		p.Notes = f.notes
	}
	return nil
}

// NewProductCommand creates the product command group
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage products",
	}

	cmd.AddCommand(newProductAddCommand(rootOpts))
	cmd.AddCommand(newProductUpdateCommand(rootOpts))
	cmd.AddCommand(newProductListCommand(rootOpts))
	cmd.AddCommand(newProductDeleteCommand(rootOpts))
	cmd.AddCommand(newProductStockCommand(rootOpts))
	cmd.AddCommand(newProductLowStockCommand(rootOpts))

	return cmd
}

func newProductAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			p := &domain.Product{}
			if err := flags.apply(cmd, p); err != nil {
				return err
			}
			if err := app.Products.Create(ctx, p); err != nil {
				return err
			}
			return printProducts(cmd, rootOpts, app, []domain.Product{*p})
		}),
	}
	flags.register(cmd)
	return cmd
}

func newProductUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "update <id|part>",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			p, err := findProduct(app, args[0])
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &p); err != nil {
				return err
			}
			if err := app.Products.Update(ctx, &p); err != nil {
				return err
			}
			return printProducts(cmd, rootOpts, app, []domain.Product{p})
		}),
	}
	flags.register(cmd)
	return cmd
}

func newProductListCommand(rootOpts *RootOptions) *cobra.Command {
	params := services.ListParams{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return printProducts(cmd, rootOpts, app, app.Products.List(params))
		}),
	}
	cmd.Flags().StringVar(&params.Search, "search", "", "match part number or name")
	cmd.Flags().StringVar(&params.Supplier, "supplier", "", "only this supplier")
	cmd.Flags().BoolVar(&params.LowStockOnly, "low", false, "only low-stock products")
	cmd.Flags().StringVar(&params.SortBy, "sort", "", "sort by partNumber, name, stock or price")
	cmd.Flags().BoolVar(&params.SortDesc, "desc", false, "sort descending")
	return cmd
}

func newProductDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|part>",
		Short: "Delete a product; past invoices keep their copies",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			id, key := parseRef(args[0])
			if id == 0 {
				p, err := findProduct(app, key)
				if err != nil {
					return err
				}
				id = p.ID
			}
			if err := app.Products.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %d\n", id)
			return nil
		}),
	}
}

func newProductStockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stock <part> <delta>",
		Short: "Add or remove stock, e.g. stock BRK-123 -- -2",
		Args:  cobra.ExactArgs(2),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return &domain.ValidationError{Field: "delta", Message: "must be a whole number"}
			}
			p, err := app.Products.AdjustStock(ctx, args[0], delta)
			if err != nil {
				return err
			}
			return printProducts(cmd, rootOpts, app, []domain.Product{*p})
		}),
	}
}

func newProductLowStockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lowstock",
		Short: "List products at or below their low-stock threshold",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return printProducts(cmd, rootOpts, app, app.Products.LowStock())
		}),
	}
}

func findProduct(app *App, ref string) (domain.Product, error) {
	id, key := parseRef(ref)
	if id != 0 {
		if p, ok := app.State.Product(id); ok {
			return p, nil
		}
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if p, ok := app.State.ProductByPartNumber(key); ok {
		return p, nil
	}
	return domain.Product{}, fmt.Errorf("product %s: %w", key, domain.ErrNotFound)
}

func printProducts(cmd *cobra.Command, rootOpts *RootOptions, app *App, products []domain.Product) error {
	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		return writeJSON(out, products)
	}

	global := app.State.Settings().LowStockThreshold()
	t := newTable(out, "ID", "PART", "NAME", "SUPPLIER", "COST", "PRICE", "STOCK", "LOW", "")
	for _, p := range products {
		flag := ""
		if p.IsLowStock(global) {
			flag = "LOW"
		}
		t.row(
			strconv.FormatInt(p.ID, 10),
			p.PartNumber,
			p.Name,
			p.Supplier,
			domain.FormatMoney(p.Cost),
			domain.FormatMoney(p.Price),
			strconv.Itoa(p.Stock),
			optionalInt(p.LowThreshold),
			flag,
		)
	}
	return t.flush()
}
