package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	minPageSize = 1
	maxPageSize = 100
)

// parseID parses a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePage returns the 1-indexed page from the query string, defaulting to 1.
func parsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parsePageSize clamps page_size to a sane range around the configured default.
func (s *Server) parsePageSize(c *fiber.Ctx) int {
	def := s.config.PageSize
	if def < minPageSize {
		def = 10
	}
	size, err := strconv.Atoi(c.Query("page_size", strconv.Itoa(def)))
	if err != nil {
		return def
	}
	if size < minPageSize {
		return minPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
