package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/test/helpers"
)

func TestSeeder_SeedIfEmpty(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	assert.Len(t, f.state.Products(), 3)
	assert.Len(t, f.state.Customers(), 2)
	assert.Len(t, f.state.Suppliers(), 2)
	assert.Equal(t, "5", f.state.Settings()[domain.SettingLowStockThreshold])
	assert.Equal(t, "Automotive Junction Autoparts", f.state.Settings()[domain.SettingBusinessName])

	ok, err := f.seeder.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, f.state.Products(), 3)
}

func TestSeeder_SkipsWhenAnyCollectionHasData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.suppliers.Create(ctx, helpers.CreateTestSupplier()))

	ok, err := f.seeder.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.state.Products())
	assert.Len(t, f.state.Suppliers(), 1)
}

func TestSeeder_KeepsSavedSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.Set(ctx, domain.SettingLowStockThreshold, "9"))

	ok, err := f.seeder.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "9", f.settings.Get(domain.SettingLowStockThreshold))
}
