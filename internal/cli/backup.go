// internal/cli/backup.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/core/services"
)

// NewBackupCommand creates the backup command
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		list bool
		keep int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a workbook of every collection to the backup store",
		Args:  cobra.NoArgs,
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			backups, err := app.Backups(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				keys, err := backups.List(ctx)
				if err != nil {
					return err
				}
				if rootOpts.Output == "json" {
					return writeJSON(out, keys)
				}
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}
				return nil
			}

			key, err := backups.Backup(ctx)
			if err != nil {
				return err
			}
			var pruned []string
			if keep > 0 {
				if pruned, err = backups.Prune(ctx, keep); err != nil {
					return err
				}
			}

			if rootOpts.Output == "json" {
				return writeJSON(out, map[string]interface{}{"key": key, "pruned": pruned})
			}
			fmt.Fprintf(out, "backup written to %s\n", key)
			if len(pruned) > 0 {
				fmt.Fprintf(out, "%d old backups removed\n", len(pruned))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead")
	cmd.Flags().IntVar(&keep, "keep", 0, "after backing up, delete all but the newest N backups")
	return cmd
}

// NewRestoreCommand creates the restore command
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [key]",
		Short: "Import a backup, the newest one when no key is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: rootOpts.withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			backups, err := app.Backups(ctx)
			if err != nil {
				return err
			}

			key := ""
			if len(args) == 1 {
				key = args[0]
			}

			reports, err := backups.Restore(ctx, key)
			if err != nil {
				return err
			}

			ordered := make([]*services.ImportReport, 0, len(reports))
			for _, k := range services.Kinds() {
				if r, ok := reports[k]; ok {
					ordered = append(ordered, r)
				}
			}
			return printReports(cmd, rootOpts, ordered)
		}),
	}
}
