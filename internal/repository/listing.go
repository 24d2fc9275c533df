package repository

import (
	"context"
	"errors"
	"strings"

	"listhub/internal/cache"
	"listhub/internal/models"
	"listhub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Supported sort modes for listing queries.
const (
	SortVotes  = "votes"
	SortNewest = "newest"
)

// maxToggleAttempts bounds the retry loop in ToggleVote. Each attempt
// re-reads current membership and re-decides add vs remove.
const maxToggleAttempts = 3

// ListOptions describe a filtered, sorted, paginated listing query.
// Page is 1-indexed.
type ListOptions struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Listing, error)
	List(ctx context.Context, opts ListOptions, currentUserID uint) ([]*models.Listing, int64, error)
	ToggleVote(ctx context.Context, listingID, userID uint) (voted bool, voteCount int64, err error)
}

// listingRepository implements ListingRepository
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Listing, error) {
	var listing models.Listing

	fetch := func() error {
		return r.applyListingDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Creator", selectCreatorFields).
			First(&listing, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns one page of listings matching opts plus the total count of
// matches independent of the pagination window. Vote counts are computed in
// the same pass for both sort modes.
func (r *listingRepository) List(ctx context.Context, opts ListOptions, currentUserID uint) ([]*models.Listing, int64, error) {
	defer observability.TrackQuery("list", "listings")()

	var total int64
	if err := r.applyListingFilters(r.db.WithContext(ctx).Model(&models.Listing{}), opts).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageError(err)
	}

	q := r.applyListingDetails(
		r.applyListingFilters(r.db.WithContext(ctx).Model(&models.Listing{}), opts),
		currentUserID,
	).Preload("Creator", selectCreatorFields)

	switch opts.Sort {
	case SortVotes:
		q = q.Order("vote_count DESC, created_at DESC")
	default: // "newest" and anything unrecognized
		q = q.Order("created_at DESC")
	}

	var listings []*models.Listing
	err := q.
		Limit(opts.PageSize).
		Offset((opts.Page - 1) * opts.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, models.NewStorageError(err)
	}
	return listings, total, nil
}

// ToggleVote adds the user's vote if absent, removes it if present, and
// returns the new membership state plus the post-toggle vote count.
// The add is an atomic conditional insert against the unique
// (user_id, listing_id) index; the remove is a keyed delete. A toggle that
// loses both races (or hits a transient storage error) is retried from
// scratch a bounded number of times.
func (r *listingRepository) ToggleVote(ctx context.Context, listingID, userID uint) (bool, int64, error) {
	defer observability.TrackQuery("toggle_vote", "votes")()

	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", listingID).
		Count(&exists).Error; err != nil {
		return false, 0, models.NewStorageError(err)
	}
	if exists == 0 {
		return false, 0, gorm.ErrRecordNotFound
	}

	voted := false
	applied := false
	var lastErr error

	for attempt := 0; attempt < maxToggleAttempts && !applied; attempt++ {
		vote := models.Vote{UserID: userID, ListingID: listingID}
		res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).Create(&vote)
		if res.Error != nil {
			lastErr = res.Error
			continue
		}
		if res.RowsAffected == 1 {
			voted = true
			applied = true
			break
		}

		// Already a member: remove the vote.
		del := r.db.WithContext(ctx).
			Where("user_id = ? AND listing_id = ?", userID, listingID).
			Delete(&models.Vote{})
		if del.Error != nil {
			lastErr = del.Error
			continue
		}
		if del.RowsAffected == 1 {
			voted = false
			applied = true
			break
		}
		// A concurrent toggle for the same pair won the delete; retry the
		// logical toggle from the top.
	}

	if !applied {
		if lastErr == nil {
			lastErr = errors.New("vote toggle contention")
		}
		return false, 0, models.NewStorageError(lastErr)
	}

	cache.Invalidate(ctx, cache.ListingKey(listingID))

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error; err != nil {
		return voted, 0, models.NewStorageError(err)
	}
	return voted, count, nil
}

// applyListingFilters restricts the query to the category and search terms.
// The CategoryAll sentinel and an empty category both mean "no restriction";
// search is a case-insensitive substring match over title and description.
func (r *listingRepository) applyListingFilters(db *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Category != "" && opts.Category != models.CategoryAll {
		db = db.Where("category = ?", opts.Category)
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return db
}

// applyListingDetails adds subqueries to fetch the vote count and the
// current user's membership in a single query.
func (r *listingRepository) applyListingDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "listings.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.listing_id = listings.id) AS vote_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM votes WHERE votes.listing_id = listings.id AND votes.user_id = ?) AS voted", currentUserID)
	}

	return db.Select(selectQuery + ", false AS voted")
}

func selectCreatorFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}
