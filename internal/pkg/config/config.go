// internal/pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is returned when a required value is blank
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Database
	Database DatabaseConfig

	// Backup
	Backup BackupConfig

	// Business defaults applied when settings have never been saved
	Business BusinessConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	LogOutput   string
	Metrics     bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path               string `required:"true"`
	BusyTimeout        time.Duration
	JournalMode        string
	EnableQueryLogging bool
	MigrationsTable    string
}

// BackupConfig selects where backup workbooks are written
type BackupConfig struct {
	Backend string // file, s3
	Dir     string
	Prefix  string
	S3      S3Config
}

// S3Config holds S3 configuration for the s3 backup backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// BusinessConfig seeds the settings collection
type BusinessConfig struct {
	Name              string
	InvoiceFooter     string
	LowStockThreshold int
}

// Load reads configuration from an optional file, the environment and .env.
// configFile may be empty.
func Load(logger *slog.Logger, configFile string) (*Config, error) {
	env := os.Getenv("PARTSDESK_APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Debug(".env file loaded successfully")
		}
	}

	v := viper.New()
	v.SetEnvPrefix("PARTSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetTypeByDefaultValue(true)

	setDefaults(v, env)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		logger.Debug("config file loaded", slog.String("file", v.ConfigFileUsed()))
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Version:     v.GetString("app.version"),
			LogLevel:    v.GetString("log.level"),
			LogFormat:   v.GetString("log.format"),
			LogOutput:   v.GetString("log.output"),
			Metrics:     v.GetBool("app.metrics"),
		},
		Database: DatabaseConfig{
			Path:               v.GetString("database.path"),
			BusyTimeout:        v.GetDuration("database.busy_timeout"),
			JournalMode:        v.GetString("database.journal_mode"),
			EnableQueryLogging: v.GetBool("database.query_logging"),
			MigrationsTable:    v.GetString("database.migrations_table"),
		},
		Backup: BackupConfig{
			Backend: strings.ToLower(v.GetString("backup.backend")),
			Dir:     v.GetString("backup.dir"),
			Prefix:  v.GetString("backup.prefix"),
			S3: S3Config{
				Region:          v.GetString("backup.s3.region"),
				Bucket:          v.GetString("backup.s3.bucket"),
				AccessKeyID:     v.GetString("backup.s3.access_key_id"),
				SecretAccessKey: v.GetString("backup.s3.secret_access_key"),
				Endpoint:        v.GetString("backup.s3.endpoint"),
				UsePathStyle:    v.GetBool("backup.s3.path_style"),
			},
		},
		Business: BusinessConfig{
			Name:              v.GetString("business.name"),
			InvoiceFooter:     v.GetString("business.invoice_footer"),
			LowStockThreshold: v.GetInt("business.low_stock_threshold"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func setDefaults(v *viper.Viper, env string) {
	dataDir := defaultDataDir()

	v.SetDefault("app.name", "partsdesk")
	v.SetDefault("app.environment", env)
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.metrics", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("database.path", filepath.Join(dataDir, "partsdesk.db"))
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.query_logging", false)
	v.SetDefault("database.migrations_table", "schema_migrations")

	v.SetDefault("backup.backend", "file")
	v.SetDefault("backup.dir", filepath.Join(dataDir, "backups"))
	v.SetDefault("backup.prefix", "backups/")
	v.SetDefault("backup.s3.region", "us-east-1")
	v.SetDefault("backup.s3.bucket", "")
	v.SetDefault("backup.s3.access_key_id", "")
	v.SetDefault("backup.s3.secret_access_key", "")
	v.SetDefault("backup.s3.endpoint", "")
	v.SetDefault("backup.s3.path_style", env == "development")

	v.SetDefault("business.name", "Automotive Junction Autoparts")
	v.SetDefault("business.invoice_footer", "Thank you for your business!")
	v.SetDefault("business.low_stock_threshold", 5)
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "partsdesk")
	}
	return "."
}
