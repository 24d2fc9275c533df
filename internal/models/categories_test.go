package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, IsValidCategory(c), "expected %q to be valid", c)
	}

	assert.False(t, IsValidCategory("Nonsense"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("gaming"), "category matching is case-sensitive")

	// The filter sentinel is not a category a listing can belong to.
	assert.False(t, IsValidCategory(CategoryAll))
}
