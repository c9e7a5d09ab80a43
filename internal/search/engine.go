package search

import (
	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// Search runs the full pipeline over a catalog: tokenize the query,
// evaluate the two-tier match policy, then filter by store and paginate.
// The tier that produced the result is returned for observability.
func Search(products []domain.Product, query string, selectedStores []string, page, pageSize int) (domain.SearchResult, Tier) {
	substrings := GenerateSubstrings(query)
	matched, tier := Evaluate(products, substrings)
	return Paginate(matched, selectedStores, page, pageSize), tier
}
