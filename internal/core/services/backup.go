// internal/core/services/backup.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// BackupService writes the whole dataset to blob storage as one workbook
// and restores it through the import path.
type BackupService struct {
	transfer *TransferService
	settings *SettingsService
	blobs    ports.BlobStore
	codec    ports.TableCodec
	prefix   string
	clock    func() time.Time
	logger   *slog.Logger
}

func NewBackupService(
	transfer *TransferService,
	settings *SettingsService,
	blobs ports.BlobStore,
	codec ports.TableCodec,
	prefix string,
	logger *slog.Logger,
) *BackupService {
	if prefix == "" {
		prefix = "backups/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BackupService{
		transfer: transfer,
		settings: settings,
		blobs:    blobs,
		codec:    codec,
		prefix:   prefix,
		clock:    time.Now,
		logger:   logger.With(slog.String("service", "backup")),
	}
}

// WithClock replaces the time source used for backup keys
func (s *BackupService) WithClock(clock func() time.Time) *BackupService {
	s.clock = clock
	return s
}

// Backup uploads every collection and records the key in the spreadsheetId setting
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	tables, err := s.transfer.ExportAll()
	if err != nil {
		return "", fmt.Errorf("failed to export: %w", err)
	}

	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, tables); err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	key := s.prefix + "partsdesk-" + s.clock().UTC().Format("20060102T150405Z") + s.codec.Extension()
	location, err := s.blobs.Upload(ctx, key, &buf, s.codec.ContentType())
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	if err := s.settings.Set(ctx, domain.SettingSpreadsheetID, key); err != nil {
		return key, err
	}

	s.logger.InfoContext(ctx, "backup completed",
		slog.String("key", key),
		slog.String("location", location))

	return key, nil
}

// Restore imports the backup at key, or the newest backup when key is empty
func (s *BackupService) Restore(ctx context.Context, key string) (map[Kind]*ImportReport, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		latest, err := s.Latest(ctx)
		if err != nil {
			return nil, err
		}
		key = latest
	}

	data, err := s.blobs.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download backup: %w", err)
	}

	tables, err := s.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", key, err)
	}

	reports, err := s.transfer.ImportWorkbook(ctx, tables)
	if err != nil {
		return reports, fmt.Errorf("failed to restore %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "restore completed", slog.String("key", key))

	return reports, nil
}

// List returns backup keys, oldest first
func (s *BackupService) List(ctx context.Context) ([]string, error) {
	keys, err := s.blobs.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, s.codec.Extension()) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Latest returns the newest backup key. Keys embed a sortable UTC timestamp.
func (s *BackupService) Latest(ctx context.Context) (string, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("backup: %w", domain.ErrNotFound)
	}
	return keys[len(keys)-1], nil
}

// Prune deletes all but the newest keep backups and returns the removed keys
func (s *BackupService) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 1 {
		return nil, &domain.ValidationError{Field: "keep", Message: "must be at least 1"}
	}

	keys, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) <= keep {
		return nil, nil
	}

	stale := keys[:len(keys)-keep]
	for _, k := range stale {
		if err := s.blobs.Delete(ctx, k); err != nil {
			return nil, fmt.Errorf("failed to prune %s: %w", k, err)
		}
	}

	s.logger.InfoContext(ctx, "old backups pruned",
		slog.Int("removed", len(stale)),
		slog.Int("kept", keep))

	return stale, nil
}
