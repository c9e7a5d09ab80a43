package domain

// Store identifies the grocery chain offering a product.
type Store struct {
	Name string `json:"name"`
	Code string `json:"code"`
	URL  string `json:"url,omitempty"`
	Logo string `json:"logo,omitempty"`
}

// Category is one level of a product's category hierarchy.
type Category struct {
	ID    int64  `json:"id"`
	Depth int    `json:"depth"`
	Name  string `json:"name"`
}

// Product is a single store offer for a grocery item. The same physical
// item carries one Product row per store, keyed by (EAN, Store.Code).
type Product struct {
	ID               int64      `json:"id"`
	EAN              string     `json:"ean"`
	Name             string     `json:"name"`
	Brand            string     `json:"brand,omitempty"`
	Vendor           string     `json:"vendor,omitempty"`
	Description      string     `json:"description,omitempty"`
	ImageURL         string     `json:"image,omitempty"`
	URL              string     `json:"url,omitempty"`
	Store            Store      `json:"store"`
	Categories       []Category `json:"categories,omitempty"`
	CurrentPrice     float64    `json:"currentPrice"`
	CurrentUnitPrice float64    `json:"currentUnitPrice,omitempty"`
	Weight           float64    `json:"weight,omitempty"`
	WeightUnit       string     `json:"weightUnit,omitempty"`
}

// SearchResult is one page of matched products together with totals
// describing the full (unpaginated) match set.
type SearchResult struct {
	Products    []Product `json:"products"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	PageSize    int       `json:"pageSize"`
}
