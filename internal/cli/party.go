// internal/cli/party.go
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// partyFlags are the contact fields shared by customers and suppliers
type partyFlags struct {
	name    string
	phone   string
	email   string
	address string
	taxID   string
	notes   string
}

func (f *partyFlags) register(cmd *cobra.Command, withTaxID bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone")
	cmd.Flags().StringVar(&f.email, "email", "", "email")
	cmd.Flags().StringVar(&f.address, "address", "", "address")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	if withTaxID {
		cmd.Flags().StringVar(&f.taxID, "tax-id", "", "tax id")
	}
}

func (f *partyFlags) applyCustomer(cmd *cobra.Command, c *domain.Customer) {
	changed := cmd.Flags().Changed
	if changed("name") {
		c.Name = f.name
	}
	if changed("phone") {
		c.Phone = f.phone
	}
	if changed("email") {
		c.Email = f.email
	}
	if changed("address") {
		c.Address = f.address
	}
	if changed("tax-id") {
		c.TaxID = f.taxID
	}
	if changed("notes") {
		c.Notes = f.notes
	}
}

func (f *partyFlags) applySupplier(cmd *cobra.Command, s *domain.Supplier) {
	changed := cmd.Flags().Changed
	if changed("name") {
		s.Name = f.name
	}
	if changed("phone") {
		s.Phone = f.phone
	}
	if changed("email") {
		s.Email = f.email
	}
	if changed("address") {
		s.Address = f.address
	}
	if changed("notes") {
		s.Notes = f.notes
	}
}

// NewCustomerCommand creates the customer command group
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customer",
		Aliases: []string{"customers"},
		Short:   "Manage customers",
	}

	addFlags := &partyFlags{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			c := &domain.Customer{}
			addFlags.applyCustomer(cmd, c)
			if err := app.Customers.Create(ctx, c); err != nil {
				return err
			}
			return printCustomers(cmd, rootOpts, []domain.Customer{*c})
		}),
	}
	addFlags.register(add, true)

	updateFlags := &partyFlags{}
	update := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Change fields of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			c, err := findCustomer(app, args[0])
			if err != nil {
				return err
			}
			updateFlags.applyCustomer(cmd, &c)
			if err := app.Customers.Update(ctx, &c); err != nil {
				return err
			}
			return printCustomers(cmd, rootOpts, []domain.Customer{c})
		}),
	}
	updateFlags.register(update, true)

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return printCustomers(cmd, rootOpts, app.Customers.List())
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			c, err := findCustomer(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Customers.Delete(ctx, c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted customer %d\n", c.ID)
			return nil
		}),
	}

	cmd.AddCommand(add, update, list, del)
	return cmd
}

// NewSupplierCommand creates the supplier command group
func NewSupplierCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "supplier",
		Aliases: []string{"suppliers"},
		Short:   "Manage suppliers",
	}

	addFlags := &partyFlags{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a supplier",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			s := &domain.Supplier{}
			addFlags.applySupplier(cmd, s)
			if err := app.Suppliers.Create(ctx, s); err != nil {
				return err
			}
			return printSuppliers(cmd, rootOpts, []domain.Supplier{*s})
		}),
	}
	addFlags.register(add, false)

	updateFlags := &partyFlags{}
	update := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Change fields of a supplier; products keep the old name (see rename)",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			s, err := findSupplier(app, args[0])
			if err != nil {
				return err
			}
			updateFlags.applySupplier(cmd, &s)
			if err := app.Suppliers.Update(ctx, &s); err != nil {
				return err
			}
			return printSuppliers(cmd, rootOpts, []domain.Supplier{s})
		}),
	}
	updateFlags.register(update, false)

	rename := &cobra.Command{
		Use:   "rename <id|name> <new-name>",
		Short: "Rename a supplier and relink its products",
		Args:  cobra.ExactArgs(2),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			s, err := findSupplier(app, args[0])
			if err != nil {
				return err
			}
			n, err := app.Suppliers.Rename(ctx, s.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed supplier %d, %d products relinked\n", s.ID, n)
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return printSuppliers(cmd, rootOpts, app.Suppliers.List())
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			s, err := findSupplier(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Suppliers.Delete(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted supplier %d\n", s.ID)
			return nil
		}),
	}

	cmd.AddCommand(add, update, rename, list, del)
	return cmd
}

func findCustomer(app *App, ref string) (domain.Customer, error) {
	id, key := parseRef(ref)
	if id != 0 {
		if c, ok := app.State.Customer(id); ok {
			return c, nil
		}
		return domain.Customer{}, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	if c, ok := app.State.CustomerByName(key); ok {
		return c, nil
	}
	return domain.Customer{}, fmt.Errorf("customer %s: %w", key, domain.ErrNotFound)
}

func findSupplier(app *App, ref string) (domain.Supplier, error) {
	id, key := parseRef(ref)
	if id != 0 {
		for _, s := range app.State.Suppliers() {
			if s.ID == id {
				return s, nil
			}
		}
		return domain.Supplier{}, fmt.Errorf("supplier %d: %w", id, domain.ErrNotFound)
	}
	if s, ok := app.State.SupplierByName(key); ok {
		return s, nil
	}
	return domain.Supplier{}, fmt.Errorf("supplier %s: %w", key, domain.ErrNotFound)
}

func printCustomers(cmd *cobra.Command, rootOpts *RootOptions, customers []domain.Customer) error {
	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		return writeJSON(out, customers)
	}
	t := newTable(out, "ID", "NAME", "PHONE", "EMAIL", "ADDRESS", "TAX ID")
	for _, c := range customers {
		t.row(strconv.FormatInt(c.ID, 10), c.Name, c.Phone, c.Email, c.Address, c.TaxID)
	}
	return t.flush()
}

func printSuppliers(cmd *cobra.Command, rootOpts *RootOptions, suppliers []domain.Supplier) error {
	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		return writeJSON(out, suppliers)
	}
	t := newTable(out, "ID", "NAME", "PHONE", "EMAIL", "ADDRESS")
	for _, s := range suppliers {
		t.row(strconv.FormatInt(s.ID, 10), s.Name, s.Phone, s.Email, s.Address)
	}
	return t.flush()
}
