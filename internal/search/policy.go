package search

import (
	"strings"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// Tier names the match tier that produced a result set.
type Tier string

const (
	// TierStrict requires at least one attribute hit (brand, vendor,
	// store or category) with the rest of the query satisfied by the name.
	TierStrict Tier = "strict"

	// TierFallbackName requires the name to contain every query word.
	// Evaluated only when the strict tier matches nothing.
	TierFallbackName Tier = "fallback_name"

	// TierNone means no tier was evaluated (empty query).
	TierNone Tier = "none"
)

// Evaluate runs the two-tier match policy over the catalog. The strict
// tier is tried first; the name fallback runs only when strict matches
// nothing at all. An empty substring set yields an empty result.
func Evaluate(products []domain.Product, substrings []string) ([]domain.Product, Tier) {
	if len(substrings) == 0 {
		return nil, TierNone
	}

	var strict []domain.Product
	for i := range products {
		if matchStrict(&products[i], substrings) {
			strict = append(strict, products[i])
		}
	}
	if len(strict) > 0 {
		return strict, TierStrict
	}

	// The word set is enough for the fallback: every longer span is built
	// from these words, and the all-of check is over individual words.
	words := queryWords(substrings)

	var fallback []domain.Product
	for i := range products {
		if matchAllWordsInName(&products[i], words) {
			fallback = append(fallback, products[i])
		}
	}
	return fallback, TierFallbackName
}

// matchStrict accepts a product when at least one substring hits an
// attribute field and every leftover part of the query is either absent
// or satisfied by the name.
func matchStrict(p *domain.Product, substrings []string) bool {
	lp := lowerProduct(p)

	hasAttributeHit := false
	var remaining []string
	for _, sub := range substrings {
		if lp.match(sub)&attributeFields != 0 {
			hasAttributeHit = true
		} else {
			remaining = append(remaining, sub)
		}
	}

	if !hasAttributeHit {
		return false
	}
	if len(remaining) == 0 {
		return true
	}
	for _, sub := range remaining {
		if lp.name != "" && strings.Contains(lp.name, sub) {
			return true
		}
	}
	return false
}

// matchAllWordsInName accepts a product when its name contains every
// individual query word.
func matchAllWordsInName(p *domain.Product, words []string) bool {
	if len(words) == 0 {
		return false
	}
	name := strings.ToLower(p.Name)
	if name == "" {
		return false
	}
	for _, w := range words {
		if !strings.Contains(name, w) {
			return false
		}
	}
	return true
}

// queryWords extracts the single-word substrings from a full substring
// set produced by GenerateSubstrings.
func queryWords(substrings []string) []string {
	var words []string
	for _, sub := range substrings {
		if !strings.ContainsRune(sub, ' ') {
			words = append(words, sub)
		}
	}
	return words
}
