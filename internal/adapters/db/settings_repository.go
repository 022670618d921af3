// internal/adapters/db/settings_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// settingsRepository stores one row per key
type settingsRepository struct {
	q      querier
	logger *slog.Logger
}

var _ ports.SettingsRepository = (*settingsRepository)(nil)

func newSettingsRepository(q querier, logger *slog.Logger) *settingsRepository {
	return &settingsRepository{
		q:      q,
		logger: logger.With(slog.String("repository", "settings")),
	}
}

// All returns every stored key. Unset keys are absent, not defaulted.
func (r *settingsRepository) All(ctx context.Context) (domain.Settings, error) {
	query, args, err := squirrel.Select("key", "value").From("settings").OrderBy("key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("select settings", err)
	}
	defer rows.Close()

	settings := make(domain.Settings)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, mapError("select settings", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("select settings", err)
	}

	return settings, nil
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := squirrel.Select("value").From("settings").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build query: %w", err)
	}

	var value string
	err = r.q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapError("get setting", err)
	}
	return value, true, nil
}

// Set writes key, replacing any previous value
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := squirrel.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return mapError("set setting", err)
	}

	r.logger.DebugContext(ctx, "setting saved", slog.String("key", key))
	return nil
}
