// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ammerola/partsdesk/internal/pkg/config"
	"github.com/ammerola/partsdesk/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigFile string
	Output     string // text, json
	Metrics    bool
	Verbose    bool
}

// ValidOutputs defines the allowed output formats
var ValidOutputs = []string{"text", "json"}

// NewRootCommand creates the partsdesk command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "partsdesk",
		Short:         "Offline parts inventory and invoicing",
		Long:          "Track parts, customers, suppliers and invoices in a local database.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, o := range ValidOutputs {
				if o == opts.Output {
					return nil
				}
			}
			return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print metrics to stderr on exit")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewCustomerCommand(opts))
	cmd.AddCommand(NewSupplierCommand(opts))
	cmd.AddCommand(NewInvoiceCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))

	return cmd
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", FriendlyError(err))
		return ExitCode(err)
	}
	return 0
}

// runFunc is the body of a command that needs the application
type runFunc func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error

// withApp loads configuration, builds the App around fn and tears it down
func (o *RootOptions) withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logger.WithOperation(cmd.Context(), cmd.CommandPath())

		bootstrap := logger.NewLogger(&logger.LogConfig{Level: "warn", Format: "text", Output: "stderr"})
		cfg, err := config.Load(bootstrap, o.ConfigFile)
		if err != nil {
			return err
		}

		level := cfg.App.LogLevel
		if o.Verbose {
			level = "debug"
		}
		log := logger.NewLogger(&logger.LogConfig{
			Level:          level,
			Format:         cfg.App.LogFormat,
			Output:         cfg.App.LogOutput,
			Environment:    cfg.App.Environment,
			ServiceName:    cfg.App.Name,
			ServiceVersion: Version,
			Sanitize:       cfg.IsProduction(),
		})

		app, err := NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		runErr := fn(ctx, app, cmd, args)
		if runErr != nil {
			log.DebugContext(ctx, "command failed", slog.String("error", runErr.Error()))
		}

		if o.Metrics || cfg.App.Metrics {
			if err := app.Metrics.WriteText(cmd.ErrOrStderr()); err != nil {
				log.WarnContext(ctx, "failed to write metrics", slog.String("error", err.Error()))
			}
		}

		return runErr
	}
}
