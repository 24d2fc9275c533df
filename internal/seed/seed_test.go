package seed

import (
	"testing"
	"time"

	"listhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Vote{}))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedDB(t)

	opts := Options{NumUsers: 5, NumListings: 20, MaxDays: 30, ShouldClean: true}
	require.NoError(t, Seed(db, opts))

	var userCount, listingCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Listing{}).Count(&listingCount).Error)
	assert.EqualValues(t, 5, userCount)
	assert.EqualValues(t, 20, listingCount)

	// Every listing belongs to a seeded user and a known category.
	var listings []models.Listing
	require.NoError(t, db.Find(&listings).Error)
	for _, l := range listings {
		assert.NotZero(t, l.CreatorID)
		assert.True(t, models.IsValidCategory(l.Category), "unexpected category %q", l.Category)
	}

	// No duplicate votes: the unique index would have rejected them, so the
	// vote table must load cleanly.
	var votes []models.Vote
	require.NoError(t, db.Find(&votes).Error)
	seen := make(map[[2]uint]bool)
	for _, v := range votes {
		key := [2]uint{v.UserID, v.ListingID}
		assert.False(t, seen[key], "duplicate vote user=%d listing=%d", v.UserID, v.ListingID)
		seen[key] = true
	}
}

func TestSeed_CleanRemovesOldData(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumListings: 5, ShouldClean: false}))
	require.NoError(t, Seed(db, Options{NumUsers: 2, NumListings: 4, ShouldClean: true}))

	var userCount, listingCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Listing{}).Count(&listingCount).Error)
	assert.EqualValues(t, 2, userCount)
	assert.EqualValues(t, 4, listingCount)
}

func TestFactoryBuildListing(t *testing.T) {
	opts := Options{MaxDays: 30}
	f := NewFactory(nil, opts)
	user := &models.User{ID: 1}

	l := f.BuildListing(user)
	assert.NotEmpty(t, l.Title)
	assert.NotEmpty(t, l.Description)
	assert.True(t, models.IsValidCategory(l.Category))
	assert.Equal(t, user.ID, l.CreatorID)

	// created_at stays inside the configured spread
	assert.LessOrEqual(t, time.Since(l.CreatedAt), time.Duration(opts.MaxDays+1)*24*time.Hour)

	withCategory := f.BuildListing(user, func(l *models.Listing) { l.Category = "Education" })
	assert.Equal(t, "Education", withCategory.Category)
}
