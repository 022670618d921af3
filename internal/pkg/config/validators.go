// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Validator checks one aspect of the configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	if cfg.Database.BusyTimeout < 0 {
		return fmt.Errorf("database busy_timeout cannot be negative")
	}

	switch strings.ToUpper(cfg.Database.JournalMode) {
	case "", "WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF":
	default:
		return fmt.Errorf("unknown database journal_mode %q", cfg.Database.JournalMode)
	}

	if cfg.Business.LowStockThreshold < 0 {
		return fmt.Errorf("business low_stock_threshold cannot be negative")
	}

	switch cfg.Backup.Backend {
	case "file":
		if cfg.Backup.Dir == "" {
			return fmt.Errorf("%w: backup dir", ErrMissingRequiredConfig)
		}
	case "s3":
		if cfg.Backup.S3.Bucket == "" {
			return fmt.Errorf("%w: backup s3 bucket", ErrMissingRequiredConfig)
		}
		if cfg.Backup.S3.Region == "" {
			return fmt.Errorf("%w: backup s3 region", ErrMissingRequiredConfig)
		}
	default:
		return fmt.Errorf("unknown backup backend %q", cfg.Backup.Backend)
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Database.EnableQueryLogging {
		return fmt.Errorf("query logging must be disabled in production")
	}

	if cfg.Backup.Backend == "s3" && cfg.Backup.S3.Endpoint != "" && strings.HasPrefix(cfg.Backup.S3.Endpoint, "http://") {
		return fmt.Errorf("backup s3 endpoint must use https in production")
	}

	if strings.EqualFold(cfg.Database.JournalMode, "OFF") || strings.EqualFold(cfg.Database.JournalMode, "MEMORY") {
		return fmt.Errorf("journal_mode %s is not crash safe", cfg.Database.JournalMode)
	}

	return nil
}

// validateRequiredFields uses reflection to check required struct tags
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name

		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if required := fieldType.Tag.Get("required"); required == "true" {
			if isZeroValue(field) {
				return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
			}
		}

		if field.Kind() == reflect.Struct {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}

	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
