package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindenez/Matplaner-backend/internal/catalog"
	"github.com/vindenez/Matplaner-backend/internal/domain"
)

func ingredientCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot([]domain.Product{
		{
			ID:           1,
			EAN:          "7311041027134",
			Name:         "Tine Helmelk",
			Store:        domain.Store{Name: "Rema 1000", Code: "REMA_1000"},
			CurrentPrice: 24.90,
		},
		{
			ID:           2,
			EAN:          "7311041027134",
			Name:         "Tine Helmelk",
			Store:        domain.Store{Name: "Kiwi", Code: "KIWI"},
			CurrentPrice: 23.50,
		},
		{
			ID:           3,
			EAN:          "7038010055164",
			Name:         "Norvegia Skivet",
			Store:        domain.Store{Name: "Kiwi", Code: "KIWI"},
			CurrentPrice: 89.90,
		},
	})
}

func TestResolveIngredientsExactPair(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "melk", EAN: "7311041027134", StoreCode: "REMA_1000"},
	})

	require.Len(t, matches, 1)
	require.Len(t, matches[0].Products, 1)
	assert.Equal(t, int64(1), matches[0].Products[0].ID)
}

func TestResolveIngredientsMissingPair(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "melk", EAN: "7311041027134", StoreCode: "MENY"},
	})

	require.Len(t, matches, 1)
	assert.NotNil(t, matches[0].Products)
	assert.Empty(t, matches[0].Products)
}

func TestResolveIngredientsNoStoreCodePicksCheapest(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "melk", EAN: "7311041027134"},
	})

	require.Len(t, matches, 1)
	require.Len(t, matches[0].Products, 1)
	assert.Equal(t, "KIWI", matches[0].Products[0].Store.Code)
	assert.Equal(t, 23.50, matches[0].Products[0].CurrentPrice)
}

func TestResolveIngredientsPriceTieBreaksOnStoreCode(t *testing.T) {
	snap := catalog.NewSnapshot([]domain.Product{
		{ID: 1, EAN: "111", CurrentPrice: 10, Store: domain.Store{Code: "REMA_1000"}},
		{ID: 2, EAN: "111", CurrentPrice: 10, Store: domain.Store{Code: "KIWI"}},
	})

	matches := ResolveIngredients(snap, []domain.Ingredient{{Name: "x", EAN: "111"}})

	require.Len(t, matches[0].Products, 1)
	assert.Equal(t, "KIWI", matches[0].Products[0].Store.Code)
}

func TestResolveIngredientsEmptyEAN(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "noe uten strekkode"},
	})

	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Products)
}

func TestEstimatePrice(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "melk", EAN: "7311041027134", StoreCode: "KIWI"},
		{Name: "ost", EAN: "7038010055164", StoreCode: "KIWI"},
		{Name: "ukjent", EAN: "0000000000000"},
	})

	est := EstimatePrice(matches)

	assert.Equal(t, 113.40, est.TotalPrice)
	require.Len(t, est.Unresolved, 1)
	assert.Equal(t, "ukjent", est.Unresolved[0].Name)
}

func TestEstimatePriceAllUnresolved(t *testing.T) {
	matches := ResolveIngredients(ingredientCatalog(), []domain.Ingredient{
		{Name: "b", EAN: "999"},
		{Name: "a", EAN: "888"},
	})

	est := EstimatePrice(matches)

	assert.Equal(t, 0.0, est.TotalPrice)
	require.Len(t, est.Unresolved, 2)
	assert.Equal(t, "a", est.Unresolved[0].Name)
	assert.Equal(t, "b", est.Unresolved[1].Name)
}
