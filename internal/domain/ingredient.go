package domain

// Ingredient is a recipe line to be resolved against the catalog.
// EAN plus StoreCode pins the lookup to a single store offer; when
// StoreCode is empty the cheapest offer across stores is chosen.
type Ingredient struct {
	Name      string  `json:"name"`
	EAN       string  `json:"ean"`
	StoreCode string  `json:"storeCode,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// IngredientMatch pairs an ingredient with the products it resolved to.
// Products is empty (never nil) when the ingredient could not be resolved.
type IngredientMatch struct {
	Ingredient Ingredient `json:"ingredient"`
	Products   []Product  `json:"products"`
}

// PriceEstimate is the summed price of a resolved ingredient list.
type PriceEstimate struct {
	TotalPrice float64           `json:"totalPrice"`
	Matches    []IngredientMatch `json:"matches"`
	Unresolved []Ingredient      `json:"unresolved,omitempty"`
}
