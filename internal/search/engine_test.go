package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPipeline(t *testing.T) {
	result, tier := Search(testCatalog(), "tine yoghurt", nil, 1, 12)

	assert.Equal(t, TierStrict, tier)
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Tine Yoghurt Vanilje", result.Products[0].Name)
}

func TestSearchEmptyQuery(t *testing.T) {
	result, tier := Search(testCatalog(), "   ", nil, 1, 12)

	assert.Equal(t, TierNone, tier)
	assert.Equal(t, 0, result.TotalItems)
	assert.Empty(t, result.Products)
}

func TestSearchStoreFilterAfterMatch(t *testing.T) {
	// The only strict match belongs to Rema 1000; filtering on Kiwi
	// leaves an empty page even though the match tier fired.
	result, tier := Search(testCatalog(), "tine yoghurt", []string{"Kiwi"}, 1, 12)

	assert.Equal(t, TierStrict, tier)
	assert.Equal(t, 0, result.TotalItems)
	assert.Empty(t, result.Products)
}
