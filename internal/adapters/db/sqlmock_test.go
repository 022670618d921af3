package db_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/adapters/db"
	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
	"github.com/ammerola/partsdesk/test/helpers"
)

const adjustStockSQL = "UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0 RETURNING stock"

func TestProductRepository_AdjustStock_Unit(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(sqlmock.Sqlmock)
		wantStock int
		wantErr   error
	}{
		{
			name: "applies_delta",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(adjustStockSQL)).
					WithArgs(-2, int64(1), -2).
					WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(23))
			},
			wantStock: 23,
		},
		{
			name: "engine_failure_is_storage_error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(adjustStockSQL)).
					WithArgs(-2, int64(1), -2).
					WillReturnError(errors.New("disk I/O error"))
			},
			wantErr: domain.ErrStorage,
		},
		{
			name: "no_row_for_missing_product_is_not_found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(adjustStockSQL)).
					WithArgs(-2, int64(1), -2).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, part_number")).
					WithArgs(int64(1)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, database := helpers.SetupMockDB(t)
			tt.setup(mock)

			store := db.NewStore(database, helpers.TestLogger())
			stock, err := store.Products().AdjustStock(context.Background(), 1, -2)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStock, stock)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_WithinTx_Unit(t *testing.T) {
	t.Run("commits_on_success", func(t *testing.T) {
		mock, database := helpers.SetupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
			WithArgs("theme", "light").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		store := db.NewStore(database, helpers.TestLogger())
		err := store.WithinTx(context.Background(), func(tx ports.Store) error {
			return tx.Settings().Set(context.Background(), "theme", "light")
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_error", func(t *testing.T) {
		mock, database := helpers.SetupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
			WillReturnError(errors.New("database is locked"))
		mock.ExpectRollback()

		store := db.NewStore(database, helpers.TestLogger())
		err := store.WithinTx(context.Background(), func(tx ports.Store) error {
			return tx.Settings().Set(context.Background(), "theme", "light")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
