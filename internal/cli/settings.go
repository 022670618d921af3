// internal/cli/settings.go
package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// NewSettingsCommand creates the settings command group
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change settings",
	}

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				value := app.Settings.Get(args[0])
				if rootOpts.Output == "json" {
					return writeJSON(out, map[string]string{args[0]: value})
				}
				_, err := fmt.Fprintln(out, value)
				return err
			}

			all := domain.DefaultSettings()
			for k, v := range app.State.Settings() {
				all[k] = v
			}
			if rootOpts.Output == "json" {
				return writeJSON(out, all)
			}

			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			t := newTable(out, "KEY", "VALUE")
			for _, k := range keys {
				t.row(k, all[k])
			}
			return t.flush()
		}),
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a setting",
		Args:  cobra.ExactArgs(2),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := app.Settings.Set(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		}),
	}

	cmd.AddCommand(get, set)
	return cmd
}
