// internal/cli/init.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/adapters/db"
)

// NewInitCommand creates the init command
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed starter data if it is empty",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			seeded, err := app.Seeder.SeedIfEmpty(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Output == "json" {
				return writeJSON(out, map[string]interface{}{
					"database": app.Config.Database.Path,
					"seeded":   seeded,
				})
			}

			fmt.Fprintf(out, "database ready at %s\n", app.Config.Database.Path)
			if seeded {
				fmt.Fprintln(out, "starter data added")
			}
			return nil
		}),
	}
}

// NewStatusCommand creates the status command
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database health and record counts",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			health := app.Database.Health(ctx)
			health["path"] = app.Config.Database.Path
			health["products"] = len(app.State.Products())
			health["customers"] = len(app.State.Customers())
			health["suppliers"] = len(app.State.Suppliers())
			health["invoices"] = len(app.State.Invoices())
			health["low_stock"] = len(app.Products.LowStock())

			version, dirty, err := db.SchemaVersion(app.migrationConfig(), app.Logger)
			if err != nil {
				return err
			}
			health["schema_version"] = version
			health["schema_dirty"] = dirty

			out := cmd.OutOrStdout()
			if rootOpts.Output == "json" {
				return writeJSON(out, health)
			}

			t := newTable(out, "KEY", "VALUE")
			for _, k := range []string{"path", "status", "schema_version", "products", "customers", "suppliers", "invoices", "low_stock"} {
				if v, ok := health[k]; ok {
					t.row(k, fmt.Sprint(v))
				}
			}
			return t.flush()
		}),
	}
}
