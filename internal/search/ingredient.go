package search

import (
	"math"
	"sort"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// Lookup provides the exact-match catalog reads used for ingredient
// resolution. Satisfied by *catalog.Snapshot.
type Lookup interface {
	ByEANAndStore(ean, storeCode string) (domain.Product, bool)
	ByEAN(ean string) []domain.Product
}

// ResolveIngredients matches each ingredient to catalog offers by exact
// (EAN, store code) equality. When the store code is absent, the cheapest
// offer across stores is chosen, ties broken by store code ascending.
// Unresolved ingredients get an empty match list, never an error.
func ResolveIngredients(lk Lookup, ingredients []domain.Ingredient) []domain.IngredientMatch {
	matches := make([]domain.IngredientMatch, 0, len(ingredients))
	for _, ing := range ingredients {
		matches = append(matches, domain.IngredientMatch{
			Ingredient: ing,
			Products:   resolveOne(lk, ing),
		})
	}
	return matches
}

func resolveOne(lk Lookup, ing domain.Ingredient) []domain.Product {
	if ing.EAN == "" {
		return []domain.Product{}
	}

	if ing.StoreCode != "" {
		if p, ok := lk.ByEANAndStore(ing.EAN, ing.StoreCode); ok {
			return []domain.Product{p}
		}
		return []domain.Product{}
	}

	offers := lk.ByEAN(ing.EAN)
	if len(offers) == 0 {
		return []domain.Product{}
	}

	// Deterministic choice across stores: cheapest offer wins, ties go to
	// the lexicographically smallest store code.
	best := offers[0]
	for _, p := range offers[1:] {
		if p.CurrentPrice < best.CurrentPrice ||
			(p.CurrentPrice == best.CurrentPrice && p.Store.Code < best.Store.Code) {
			best = p
		}
	}
	return []domain.Product{best}
}

// EstimatePrice sums the price of the first matched offer per resolved
// ingredient. Unresolved ingredients contribute zero and are reported
// separately, sorted by name for stable output.
func EstimatePrice(matches []domain.IngredientMatch) domain.PriceEstimate {
	est := domain.PriceEstimate{
		Matches: matches,
	}

	var total float64
	for _, m := range matches {
		if len(m.Products) == 0 {
			est.Unresolved = append(est.Unresolved, m.Ingredient)
			continue
		}
		total += m.Products[0].CurrentPrice
	}

	sort.Slice(est.Unresolved, func(i, j int) bool {
		return est.Unresolved[i].Name < est.Unresolved[j].Name
	})

	est.TotalPrice = math.Round(total*100) / 100
	return est
}
