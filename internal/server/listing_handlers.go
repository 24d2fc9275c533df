package server

import (
	"errors"
	"math"

	"listhub/internal/models"
	"listhub/internal/observability"
	"listhub/internal/repository"
	"listhub/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetListings godoc
//
//	@Summary		List listings with filtering, search, sorting and pagination
//	@Tags			listings
//	@Produce		json
//	@Param			category	query	string	false	"Category filter ('All' disables it)"
//	@Param			search		query	string	false	"Case-insensitive substring match on title and description"
//	@Param			sort		query	string	false	"votes (default) or newest"
//	@Param			page		query	int		false	"1-indexed page"
//	@Param			page_size	query	int		false	"Items per page (1-100)"
//	@Success		200	{object}	models.ListingPage
//	@Router			/api/listings [get]
func (s *Server) GetListings(c *fiber.Ctx) error {
	opts := repository.ListOptions{
		Category: c.Query("category", models.CategoryAll),
		Search:   c.Query("search"),
		Sort:     c.Query("sort", repository.SortVotes),
		Page:     parsePage(c),
		PageSize: s.parsePageSize(c),
	}

	currentUserID, _ := s.optionalUserID(c)

	listings, total, err := s.listingRepo.List(c.Context(), opts, currentUserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, err)
	}
	if listings == nil {
		listings = []*models.Listing{}
	}

	pages := int(math.Ceil(float64(total) / float64(opts.PageSize)))

	return c.JSON(models.ListingPage{
		Listings: listings,
		Pagination: models.Pagination{
			Total: total,
			Page:  opts.Page,
			Pages: pages,
		},
	})
}

// GetListing godoc
//
//	@Summary		Get a single listing by ID
//	@Tags			listings
//	@Produce		json
//	@Param			id	path	int	true	"Listing ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/listings/{id} [get]
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid listing ID"))
	}

	currentUserID, _ := s.optionalUserID(c)

	listing, err := s.listingRepo.GetByID(c.Context(), id, currentUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("listing", id))
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewStorageError(err))
	}

	return c.JSON(fiber.Map{"listing": listing})
}

// CreateListing godoc
//
//	@Summary		Create a listing
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body	validation.ListingInput	true	"Listing payload"
//	@Success		201	{object}	map[string]interface{}
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		401	{object}	models.ErrorResponse
//	@Router			/api/listings [post]
func (s *Server) CreateListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input validation.ListingInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	input.Trim()

	// All field violations come back in one response.
	if fields := validation.Struct(&input); fields != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fields))
	}

	listing := &models.Listing{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		DiscordInfo: input.DiscordInfo,
		CreatorID:   userID,
	}

	if err := s.listingRepo.Create(c.Context(), listing); err != nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, err)
	}

	observability.ListingsCreated.Inc()

	// Re-read through the query path so the response carries the creator and
	// the derived vote fields, same shape as a detail fetch.
	created, err := s.listingRepo.GetByID(c.Context(), listing.ID, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewStorageError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"listing": created})
}

// VoteListing godoc
//
//	@Summary		Toggle the caller's vote on a listing
//	@Tags			listings
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Listing ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/listings/{id}/vote [post]
func (s *Server) VoteListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, ok := parseID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid listing ID"))
	}

	voted, voteCount, err := s.listingRepo.ToggleVote(c.Context(), id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("listing", id))
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, err)
	}

	message := "Vote removed"
	action := "removed"
	if voted {
		message = "Vote added"
		action = "added"
	}
	observability.VotesToggled.WithLabelValues(action).Inc()

	return c.JSON(fiber.Map{
		"message":   message,
		"voteCount": voteCount,
		"voted":     voted,
	})
}

// GetCategories godoc
//
//	@Summary		List valid listing categories
//	@Tags			listings
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/api/categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.Categories})
}
