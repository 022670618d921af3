// internal/cli/app.go
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ammerola/partsdesk/internal/adapters/db"
	"github.com/ammerola/partsdesk/internal/adapters/spreadsheet"
	"github.com/ammerola/partsdesk/internal/adapters/storage"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/core/services"
	"github.com/ammerola/partsdesk/internal/pkg/config"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

// App holds every dependency for one invocation
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Database *db.Database
	Store    *db.Store
	State    *services.State

	Products  *services.ProductService
	Customers *services.CustomerService
	Suppliers *services.SupplierService
	Settings  *services.SettingsService
	Invoices  *services.InvoiceService
	Transfer  *services.TransferService
	Seeder    *services.Seeder
}

// NewApp opens the database, brings the schema up to date and loads the state
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	dbCfg := app.dbConfig()

	logger.DebugContext(ctx, "opening database", slog.String("path", dbCfg.Path))

	database, err := db.NewDatabase(ctx, dbCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Database = database

	if err := db.RunMigrations(ctx, app.migrationConfig(), logger); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Store = db.NewStore(database, logger)
	app.State = services.NewState(app.Store, logger)

	app.Products = services.NewProductService(app.Store, app.State, app.Metrics, logger)
	app.Customers = services.NewCustomerService(app.Store, app.State, app.Metrics, logger)
	app.Suppliers = services.NewSupplierService(app.Store, app.State, app.Metrics, logger)
	app.Settings = services.NewSettingsService(app.Store, app.State, app.Metrics, logger)
	app.Invoices = services.NewInvoiceService(app.Store, app.State, app.Metrics, logger)
	app.Transfer = services.NewTransferService(app.Store, app.State,
		app.Products, app.Customers, app.Suppliers, app.Invoices, app.Metrics, logger)
	app.Seeder = services.NewSeeder(app.Store, app.State, app.Settings, businessDefaults(cfg), logger)

	if err := app.State.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return app, nil
}

// Backups builds the backup service for the configured backend. S3 is only
// contacted when a backup command runs.
func (a *App) Backups(ctx context.Context) (*services.BackupService, error) {
	var blobs ports.BlobStore
	switch a.Config.Backup.Backend {
	case "s3":
		s3cfg := a.Config.Backup.S3
		s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          s3cfg.Region,
			Bucket:          s3cfg.Bucket,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			Endpoint:        s3cfg.Endpoint,
			UsePathStyle:    s3cfg.UsePathStyle,
		}, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		blobs = s3Storage
	default:
		local, err := storage.NewLocalStorage(a.Config.Backup.Dir, a.Logger)
		if err != nil {
			return nil, err
		}
		blobs = local
	}

	return services.NewBackupService(a.Transfer, a.Settings, blobs,
		spreadsheet.XLSXCodec{}, a.Config.Backup.Prefix, a.Logger), nil
}

// Close releases the database
func (a *App) Close() {
	if a.Database != nil {
		if err := a.Database.Close(); err != nil {
			a.Logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}

func businessDefaults(cfg *config.Config) domain.Settings {
	return domain.Settings{
		domain.SettingLowStockThreshold: strconv.Itoa(cfg.Business.LowStockThreshold),
		domain.SettingBusinessName:      cfg.Business.Name,
		domain.SettingInvoiceFooter:     cfg.Business.InvoiceFooter,
	}
}

func (a *App) dbConfig() *db.Config {
	return &db.Config{
		Path:               a.Config.Database.Path,
		BusyTimeout:        a.Config.Database.BusyTimeout,
		JournalMode:        a.Config.Database.JournalMode,
		EnableQueryLogging: a.Config.Database.EnableQueryLogging,
	}
}

func (a *App) migrationConfig() *db.MigrationConfig {
	return &db.MigrationConfig{
		Database:  a.dbConfig(),
		TableName: a.Config.Database.MigrationsTable,
	}
}
