package facility

import (
	"context"
	"fmt"
	"testing"

	"mzansicare/internal/models"
	"mzansicare/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Facility{}))
	return db
}

func TestSeedAndGet(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedFacilities(db))
	// Seeding twice must not duplicate.
	require.NoError(t, SeedFacilities(db))

	dir := NewDirectory(db, nil)
	ctx := context.Background()

	all, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	f, err := dir.Get(ctx, "jhb-central")
	require.NoError(t, err)
	assert.Equal(t, "Johannesburg Central Clinic", f.Name)
	assert.True(t, f.HasCoords())
	assert.Equal(t, 6, f.AvgServiceMinutes)
	assert.Equal(t, 25.0, f.GeofenceRadiusKm)

	_, err = dir.Get(ctx, "nowhere")
	assert.ErrorIs(t, err, queue.ErrNotFound)
}

func TestUpsertValidation(t *testing.T) {
	db := newTestDB(t)
	dir := NewDirectory(db, nil)
	ctx := context.Background()

	err := dir.Upsert(ctx, &models.Facility{ID: "", Name: "Nameless"})
	assert.ErrorIs(t, err, queue.ErrInvalidArgument)

	// Partial record: no coordinates is a valid registration.
	require.NoError(t, dir.Upsert(ctx, &models.Facility{ID: "mobile-unit-1", Name: "Mobile Unit", AvgServiceMinutes: 10}))

	f, err := dir.Get(ctx, "mobile-unit-1")
	require.NoError(t, err)
	assert.False(t, f.HasCoords())
	assert.Equal(t, 10, f.AvgServiceMinutes)
}
