package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/partsdesk/internal/adapters/spreadsheet"
	"github.com/ammerola/partsdesk/internal/adapters/storage"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/services"
	"github.com/ammerola/partsdesk/test/helpers"
	"github.com/ammerola/partsdesk/test/mocks"
)

type BackupServiceSuite struct {
	suite.Suite
	ctx    context.Context
	dir    string
	blobs  *storage.LocalStorage
	source *fixture
	backup *services.BackupService
}

func TestBackupServiceSuite(t *testing.T) {
	suite.Run(t, new(BackupServiceSuite))
}

func (s *BackupServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = filepath.Join(s.T().TempDir(), "backups")

	blobs, err := storage.NewLocalStorage(s.dir, helpers.TestLogger())
	s.Require().NoError(err)
	s.blobs = blobs

	s.source = seeded(s.T())
	s.backup = s.backupFor(s.source).WithClock(func() time.Time { return fixedNow })
}

func (s *BackupServiceSuite) backupFor(f *fixture) *services.BackupService {
	return services.NewBackupService(f.transfer, f.settings, s.blobs,
		spreadsheet.XLSXCodec{}, "backups", helpers.TestLogger())
}

func (s *BackupServiceSuite) TestBackupWritesWorkbook() {
	key, err := s.backup.Backup(s.ctx)
	s.Require().NoError(err)

	s.Equal("backups/partsdesk-20240301T103000Z.xlsx", key)
	s.Equal(key, s.source.settings.Get(domain.SettingSpreadsheetID))

	data, err := s.blobs.Download(s.ctx, key)
	s.Require().NoError(err)

	tables, err := spreadsheet.XLSXCodec{}.Decode(strings.NewReader(string(data)))
	s.Require().NoError(err)

	var names []string
	for _, t := range tables {
		names = append(names, t.Name)
	}
	s.Equal([]string{"Products", "Customers", "Suppliers", "Invoices", "InvoiceItems"}, names)
	s.Len(tables[0].Rows, 3)
}

func (s *BackupServiceSuite) TestRestoreLatestIntoEmptyStore() {
	d := s.source.invoices.NewDraft()
	s.Require().NoError(s.source.invoices.AddLine(d, "BRK-123", 5, decimal.Zero))
	_, err := s.source.invoices.Commit(s.ctx, d)
	s.Require().NoError(err)

	_, err = s.backup.Backup(s.ctx)
	s.Require().NoError(err)

	// a later backup with more stock
	_, err = s.source.products.AdjustStock(s.ctx, "BRK-123", 100)
	s.Require().NoError(err)
	later := s.backupFor(s.source).WithClock(func() time.Time { return fixedNow.Add(time.Hour) })
	latestKey, err := later.Backup(s.ctx)
	s.Require().NoError(err)

	keys, err := later.List(s.ctx)
	s.Require().NoError(err)
	s.Len(keys, 2)

	target := newFixture(s.T())
	reports, err := s.backupFor(target).Restore(s.ctx, "")
	s.Require().NoError(err)

	s.Equal(3, reports[services.KindProducts].Created)
	s.Equal(1, reports[services.KindInvoices].Created)
	s.Equal(120, target.stock(s.T(), "BRK-123"))
	s.Len(target.invoices.List(), 1)

	latest, err := later.Latest(s.ctx)
	s.Require().NoError(err)
	s.Equal(latestKey, latest)
}

func (s *BackupServiceSuite) TestPruneKeepsNewest() {
	var keys []string
	for i := 0; i < 4; i++ {
		at := fixedNow.Add(time.Duration(i) * time.Minute)
		key, err := s.backupFor(s.source).WithClock(func() time.Time { return at }).Backup(s.ctx)
		s.Require().NoError(err)
		keys = append(keys, key)
	}

	removed, err := s.backup.Prune(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(keys[:2], removed)

	left, err := s.backup.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(keys[2:], left)

	removed, err = s.backup.Prune(s.ctx, 5)
	s.Require().NoError(err)
	s.Empty(removed)

	_, err = s.backup.Prune(s.ctx, 0)
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *BackupServiceSuite) TestRestoreMissingKey() {
	_, err := s.backup.Restore(s.ctx, "backups/nope.xlsx")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *BackupServiceSuite) TestLatestWithNoBackups() {
	_, err := s.backup.Latest(s.ctx)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.backup.Restore(s.ctx, "")
	s.ErrorIs(err, domain.ErrNotFound)
}

func TestBackupService_MockedBlobStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(blobs *mocks.MockBlobStore)
		run     func(ctx context.Context, svc *services.BackupService) error
		wantErr error
	}{
		{
			name: "latest_skips_foreign_files",
			setup: func(blobs *mocks.MockBlobStore) {
				blobs.EXPECT().List(gomock.Any(), "backups/").
					Return([]string{"backups/notes.txt"}, nil)
			},
			run: func(ctx context.Context, svc *services.BackupService) error {
				_, err := svc.Latest(ctx)
				return err
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "upload_failure",
			setup: func(blobs *mocks.MockBlobStore) {
				blobs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), "text/csv").
					Return("", errors.New("disk full"))
			},
			run: func(ctx context.Context, svc *services.BackupService) error {
				_, err := svc.Backup(ctx)
				return err
			},
		},
		{
			name: "prune_delete_failure",
			setup: func(blobs *mocks.MockBlobStore) {
				blobs.EXPECT().List(gomock.Any(), "backups/").
					Return([]string{"backups/partsdesk-1.csv", "backups/partsdesk-2.csv"}, nil)
				blobs.EXPECT().Delete(gomock.Any(), "backups/partsdesk-1.csv").
					Return(errors.New("permission denied"))
			},
			run: func(ctx context.Context, svc *services.BackupService) error {
				_, err := svc.Prune(ctx, 1)
				return err
			},
		},
		{
			name: "undecodable_backup",
			setup: func(blobs *mocks.MockBlobStore) {
				blobs.EXPECT().Download(gomock.Any(), "backups/bad.csv").
					Return([]byte("\"unterminated"), nil)
			},
			run: func(ctx context.Context, svc *services.BackupService) error {
				_, err := svc.Restore(ctx, "backups/bad.csv")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			blobs := mocks.NewMockBlobStore(ctrl)
			tt.setup(blobs)

			f := seeded(t)
			svc := services.NewBackupService(f.transfer, f.settings, blobs,
				spreadsheet.CSVCodec{}, "backups/", helpers.TestLogger())

			err := tt.run(context.Background(), svc)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, "", f.settings.Get(domain.SettingSpreadsheetID))
		})
	}
}
