package search

import (
	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// Paginate filters matched products by store, slices out the requested
// page and fills in result metadata. Store names are compared exactly as
// stored (case-sensitive). Page and pageSize are echoed back unchanged;
// a page past the end simply yields an empty product list.
func Paginate(matched []domain.Product, selectedStores []string, page, pageSize int) domain.SearchResult {
	filtered := matched
	if len(selectedStores) > 0 {
		wanted := make(map[string]struct{}, len(selectedStores))
		for _, s := range selectedStores {
			wanted[s] = struct{}{}
		}
		filtered = make([]domain.Product, 0, len(matched))
		for _, p := range matched {
			if _, ok := wanted[p.Store.Name]; ok {
				filtered = append(filtered, p)
			}
		}
	}

	totalItems := len(filtered)
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}

	products := []domain.Product{}
	start := (page - 1) * pageSize
	if start >= 0 && start < totalItems {
		end := start + pageSize
		if end > totalItems {
			end = totalItems
		}
		products = append(products, filtered[start:end]...)
	}

	return domain.SearchResult{
		Products:    products,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}
