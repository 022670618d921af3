// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/adapters/db"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/pkg/config"
)

// TestDB is a migrated database in a temp directory
type TestDB struct {
	Database *db.Database
	Store    *db.Store
	Config   *db.Config
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a fresh SQLite file with the schema applied
func SetupTestDB(t testing.TB) *TestDB {
	t.Helper()

	dbConfig := &db.Config{
		Path:               filepath.Join(t.TempDir(), "partsdesk.db"),
		BusyTimeout:        5 * time.Second,
		JournalMode:        "WAL",
		EnableQueryLogging: testing.Verbose(),
	}

	ctx := context.Background()
	err := db.RunMigrations(ctx, &db.MigrationConfig{Database: dbConfig}, TestLogger())
	require.NoError(t, err, "Could not run migrations")

	database, err := db.NewDatabase(ctx, dbConfig, TestLogger())
	require.NoError(t, err, "Could not open database")

	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Logf("Could not close database: %s", err)
		}
	})

	return &TestDB{
		Database: database,
		Store:    db.NewStore(database, TestLogger()),
		Config:   dbConfig,
	}
}

// SetupMockDB creates a sqlmock-backed Database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *db.Database) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return mock, db.WrapDB(sqlDB, db.DefaultConfig(), TestLogger())
}

// LoadTestConfig returns a test configuration
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Name:        "partsdesk-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			LogOutput:   "stderr",
		},
		Database: config.DatabaseConfig{
			Path:            filepath.Join(dir, "partsdesk.db"),
			BusyTimeout:     5 * time.Second,
			JournalMode:     "WAL",
			MigrationsTable: "schema_migrations",
		},
		Backup: config.BackupConfig{
			Backend: "file",
			Dir:     filepath.Join(dir, "backups"),
			Prefix:  "backups/",
		},
		Business: config.BusinessConfig{
			Name:              "Automotive Junction Autoparts",
			InvoiceFooter:     "Thank you for your business!",
			LowStockThreshold: 5,
		},
	}
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	low := 5
	p := &domain.Product{
		PartNumber:   "BRK-123",
		Name:         "Brake Pad Set",
		Supplier:     "SilverLine Supplies",
		Cost:         decimal.NewFromInt(20),
		Price:        decimal.NewFromInt(35),
		Stock:        25,
		LowThreshold: &low,
	}

	for _, override := range overrides {
		override(p)
	}

	return p
}

// CreateTestProducts creates count products with distinct part numbers
func CreateTestProducts(count int) []domain.Product {
	products := make([]domain.Product, count)
	for i := 0; i < count; i++ {
		products[i] = *CreateTestProduct(func(p *domain.Product) {
			p.PartNumber = fmt.Sprintf("TST-%03d", i+1)
			p.Name = fmt.Sprintf("Test Part %d", i+1)
			p.Price = decimal.NewFromInt(int64(10 + i))
		})
	}
	return products
}

// CreateTestCustomer creates a test customer
func CreateTestCustomer(overrides ...func(*domain.Customer)) *domain.Customer {
	c := &domain.Customer{
		Name:  "John Doe",
		Phone: "555-0100",
	}
	for _, override := range overrides {
		override(c)
	}
	return c
}

// CreateTestSupplier creates a test supplier
func CreateTestSupplier(overrides ...func(*domain.Supplier)) *domain.Supplier {
	s := &domain.Supplier{
		Name:  "SilverLine Supplies",
		Phone: "555-0200",
	}
	for _, override := range overrides {
		override(s)
	}
	return s
}

// SeedProducts inserts products straight through the store and returns their ids
func SeedProducts(t testing.TB, tdb *TestDB, products ...domain.Product) []int64 {
	t.Helper()

	ctx := context.Background()
	ids := make([]int64, 0, len(products))
	for i := range products {
		id, err := tdb.Store.Products().Insert(ctx, &products[i])
		require.NoError(t, err, "Failed to seed product %s", products[i].PartNumber)
		ids = append(ids, id)
	}
	return ids
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test"+extension)
	require.NoError(t, os.WriteFile(path, content, 0o644), "Failed to write temp file")

	return path
}
