// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"listhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		opts: opts,
	}
}

// BuildListing constructs a listing struct without persisting it. Useful for
// batching.
func (f *Factory) BuildListing(creator *models.User, overrides ...func(*models.Listing)) *models.Listing {
	category := models.Categories[f.rand.Intn(len(models.Categories))]

	listing := &models.Listing{
		Title:       listingTitle(category, f.rand),
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		Category:    category,
		DiscordInfo: discordInvite(f.rand),
		CreatorID:   creator.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	listing.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(listing)
	}
	return listing
}

// CreateListingsBatch persists listings in chunks.
func (f *Factory) CreateListingsBatch(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	return f.db.CreateInBatches(listings, 100).Error
}

func listingTitle(category string, r *rand.Rand) string {
	base := strings.Title(gofakeit.BuzzWord() + " " + gofakeit.NounAbstract())
	switch category {
	case "Gaming":
		return fmt.Sprintf("%s %s crew", gofakeit.Adjective(), gofakeit.Gamertag())
	case "Music":
		return fmt.Sprintf("%s listening circle", strings.Title(gofakeit.AdjectiveDescriptive()))
	default:
		if r.Intn(2) == 0 {
			return base + " group"
		}
		return base + " hub"
	}
}

func discordInvite(r *rand.Rand) string {
	// About a third of listings skip the invite.
	if r.Intn(3) == 0 {
		return ""
	}
	return "https://discord.gg/" + gofakeit.LetterN(8)
}
