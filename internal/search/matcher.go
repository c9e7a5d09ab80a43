package search

import (
	"strings"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// Field identifies which product fields a substring matched.
type Field uint8

const (
	FieldName Field = 1 << iota
	FieldBrand
	FieldVendor
	FieldStore
	FieldCategory
)

// attributeFields are the non-name fields that qualify a substring as an
// attribute hit under the strict tier.
const attributeFields = FieldBrand | FieldVendor | FieldStore | FieldCategory

// loweredProduct caches the lowercased field values of one product so a
// multi-substring evaluation does not re-lower them per substring.
type loweredProduct struct {
	name       string
	brand      string
	vendor     string
	store      string
	categories []string
}

func lowerProduct(p *domain.Product) loweredProduct {
	lp := loweredProduct{
		name:   strings.ToLower(p.Name),
		brand:  strings.ToLower(p.Brand),
		vendor: strings.ToLower(p.Vendor),
		store:  strings.ToLower(p.Store.Name),
	}
	if len(p.Categories) > 0 {
		lp.categories = make([]string, len(p.Categories))
		for i, c := range p.Categories {
			lp.categories[i] = strings.ToLower(c.Name)
		}
	}
	return lp
}

// match reports which fields contain the (already lowercased) substring.
// Empty fields never match.
func (lp loweredProduct) match(substring string) Field {
	var f Field
	if lp.name != "" && strings.Contains(lp.name, substring) {
		f |= FieldName
	}
	if lp.brand != "" && strings.Contains(lp.brand, substring) {
		f |= FieldBrand
	}
	if lp.vendor != "" && strings.Contains(lp.vendor, substring) {
		f |= FieldVendor
	}
	if lp.store != "" && strings.Contains(lp.store, substring) {
		f |= FieldStore
	}
	for _, c := range lp.categories {
		if c != "" && strings.Contains(c, substring) {
			f |= FieldCategory
			break
		}
	}
	return f
}

// MatchFields reports which of a product's fields contain the substring,
// case-insensitively. Absent fields are treated as empty strings.
func MatchFields(p *domain.Product, substring string) Field {
	return lowerProduct(p).match(strings.ToLower(substring))
}
