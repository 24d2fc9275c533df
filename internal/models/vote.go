package models

import (
	"time"
)

// Vote represents a user's vote on a listing.
// The combination of UserID and ListingID must be unique.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_listing" json:"user_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_user_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}
