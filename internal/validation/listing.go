package validation

import (
	"strings"
)

// ListingInput is the request body for creating a listing. Bounds mirror the
// storage schema constraints.
type ListingInput struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Category    string `json:"category" validate:"required,category"`
	DiscordInfo string `json:"discordInfo" validate:"max=100"`
}

// Trim strips leading/trailing whitespace before validation so length bounds
// apply to the content that will actually be stored.
func (in *ListingInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.DiscordInfo = strings.TrimSpace(in.DiscordInfo)
}

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Trim normalizes identity fields; the password is taken as-is.
func (in *RegisterInput) Trim() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
