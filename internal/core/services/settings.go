// internal/core/services/settings.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/internal/pkg/metrics"
)

// SettingsService reads and writes the key-value settings
type SettingsService struct {
	store   ports.Store
	state   *State
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSettingsService(store ports.Store, state *State, m *metrics.Metrics, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:   store,
		state:   state,
		metrics: m,
		logger:  logger.With(slog.String("service", "settings")),
	}
}

// Load reads every stored setting from the store
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	if err := s.state.ReloadSettings(ctx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.state.Settings(), nil
}

// Get returns the cached value for key, or its default
func (s *SettingsService) Get(key string) string {
	return s.state.Settings().Get(strings.TrimSpace(key))
}

// Set persists one setting and updates the cached snapshot in the same call
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	setting := domain.Setting{Key: key, Value: value}
	if err := setting.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSettingValue(setting.Key, setting.Value); err != nil {
		return err
	}

	return s.set(ctx, s.store, setting.Key, setting.Value)
}

func (s *SettingsService) set(ctx context.Context, store ports.Store, key, value string) error {
	if err := store.Settings().Set(ctx, key, value); err != nil {
		s.metrics.ObserveError("settings.set", err)
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	s.state.SetSetting(key, value)

	s.logger.DebugContext(ctx, "setting saved", slog.String("key", key))

	return nil
}

// Defaults stores the given values for keys that have never been saved
func (s *SettingsService) Defaults(ctx context.Context, store ports.Store, values domain.Settings) error {
	current, err := store.Settings().All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for k, v := range values {
		if _, ok := current[k]; ok {
			continue
		}
		if err := store.Settings().Set(ctx, k, v); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", k, err)
		}
	}
	return nil
}

func validateSettingValue(key, value string) error {
	if key == domain.SettingLowStockThreshold {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return &domain.ValidationError{Field: key, Message: "must be a whole number"}
		}
		if n < 0 {
			return &domain.ValidationError{Field: key, Message: "cannot be negative"}
		}
	}
	return nil
}
