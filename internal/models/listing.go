package models

import (
	"time"
)

// Listing is a user-submitted, categorized post that can be voted on.
// Listings are immutable after creation; the only mutation path is the
// vote toggle in the listing repository.
type Listing struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Category    string `gorm:"not null;index" json:"category"`
	DiscordInfo string `json:"discordInfo"`
	CreatorID   uint   `gorm:"not null;index" json:"-"`
	Creator     User   `gorm:"foreignKey:CreatorID" json:"creator"`
	// VoteCount is not persisted; computed per query from the votes table
	VoteCount int `gorm:"->;-:migration" json:"voteCount"`
	// Voted indicates whether the current requesting user voted on this listing (computed)
	Voted     bool      `gorm:"->;-:migration" json:"voted"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pagination describes the window of a listing page response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ListingPage is the response body for a paginated listing query.
type ListingPage struct {
	Listings   []*Listing `json:"listings"`
	Pagination Pagination `json:"pagination"`
}
