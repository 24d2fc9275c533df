package models

// CategoryAll is the filter sentinel meaning "no category restriction".
const CategoryAll = "All"

// Categories is the closed set of listing categories. It is shared between
// request validation, repository filtering, and the /api/categories endpoint
// so clients and server stay in lock-step.
var Categories = []string{
	"General",
	"Gaming",
	"Technology",
	"Art & Design",
	"Music",
	"Education",
	"Business",
	"Other",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// IsValidCategory reports whether c is a member of the category enumeration.
// The CategoryAll sentinel is a filter value, not a valid listing category.
func IsValidCategory(c string) bool {
	_, ok := categorySet[c]
	return ok
}
