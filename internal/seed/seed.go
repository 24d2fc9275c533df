package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"listhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumListings int
	MaxDays     int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d listings...", opts.NumUsers, opts.NumListings)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	listings, err := createListings(db, users, opts)
	if err != nil {
		return fmt.Errorf("failed to create listings: %w", err)
	}
	log.Printf("created %d listings", len(listings))

	votes, err := createVotes(db, users, listings)
	if err != nil {
		return fmt.Errorf("failed to create votes: %w", err)
	}
	log.Printf("created %d votes", votes)

	log.Println("Seeding complete")
	return nil
}

// clearData removes all seedable rows, children first.
func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.Vote{}, &models.Listing{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	// One password for every seeded account, to make manual testing easy.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
		})
	}

	if err := db.CreateInBatches(users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createListings(db *gorm.DB, users []*models.User, opts Options) ([]*models.Listing, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to assign listings to")
	}

	f := NewFactory(db, opts)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	listings := make([]*models.Listing, 0, opts.NumListings)
	for i := 0; i < opts.NumListings; i++ {
		creator := users[r.Intn(len(users))]
		listings = append(listings, f.BuildListing(creator))
	}

	if err := f.CreateListingsBatch(listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// createVotes gives each listing a random subset of distinct voters so the
// votes sort produces an interesting ordering.
func createVotes(db *gorm.DB, users []*models.User, listings []*models.Listing) (int, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var votes []*models.Vote
	for _, listing := range listings {
		voters := r.Perm(len(users))
		n := r.Intn(len(users) + 1)
		for _, idx := range voters[:n] {
			votes = append(votes, &models.Vote{
				UserID:    users[idx].ID,
				ListingID: listing.ID,
			})
		}
	}

	if len(votes) == 0 {
		return 0, nil
	}
	if err := db.CreateInBatches(votes, 200).Error; err != nil {
		return 0, err
	}
	return len(votes), nil
}
