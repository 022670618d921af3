package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "business_name", key: domain.SettingBusinessName, value: "Brake Barn"},
		{name: "threshold", key: domain.SettingLowStockThreshold, value: "12"},
		{name: "threshold_zero", key: domain.SettingLowStockThreshold, value: "0"},
		{name: "unknown_key_is_kept", key: "printer", value: "thermal-58mm"},
		{name: "threshold_not_a_number", key: domain.SettingLowStockThreshold, value: "many", wantErr: domain.ErrValidation},
		{name: "threshold_negative", key: domain.SettingLowStockThreshold, value: "-1", wantErr: domain.ErrValidation},
		{name: "blank_key", key: "  ", value: "x", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			err := f.settings.Set(ctx, tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, err := f.db.Store.Settings().All(ctx)
				require.NoError(t, err)
				assert.Empty(t, stored)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.value, f.settings.Get(tt.key))

			// survives a reload from the store
			loaded, err := f.settings.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.value, loaded[tt.key])
		})
	}
}

func TestSettingsService_GetFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Automotive Junction Autoparts", f.settings.Get(domain.SettingBusinessName))
	assert.Equal(t, "5", f.settings.Get(domain.SettingLowStockThreshold))
	assert.Equal(t, "dark", f.settings.Get(domain.SettingTheme))
	assert.Equal(t, "", f.settings.Get("nothing-here"))
}

func TestSettingsService_DefaultsWritesOnlyUnsetKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.Set(ctx, domain.SettingInvoiceFooter, "No refunds on electrical parts"))

	err := f.settings.Defaults(ctx, f.db.Store, domain.Settings{
		domain.SettingInvoiceFooter: "Thank you for your business!",
		domain.SettingBusinessName:  "Automotive Junction Autoparts",
	})
	require.NoError(t, err)

	stored, err := f.db.Store.Settings().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{
		domain.SettingInvoiceFooter: "No refunds on electrical parts",
		domain.SettingBusinessName:  "Automotive Junction Autoparts",
	}, stored)
}
