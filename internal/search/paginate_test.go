package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

func makeProducts(n int, storeName string) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:    int64(i + 1),
			Name:  fmt.Sprintf("Produkt %d", i+1),
			Store: domain.Store{Name: storeName},
		}
	}
	return products
}

func TestPaginateSlicing(t *testing.T) {
	products := makeProducts(25, "Kiwi")

	result := Paginate(products, nil, 2, 10)

	assert.Equal(t, 25, result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.CurrentPage)
	require.Len(t, result.Products, 10)
	assert.Equal(t, int64(11), result.Products[0].ID)
	assert.Equal(t, int64(20), result.Products[9].ID)
}

func TestPaginateLastPartialPage(t *testing.T) {
	result := Paginate(makeProducts(25, "Kiwi"), nil, 3, 10)

	require.Len(t, result.Products, 5)
	assert.Equal(t, int64(21), result.Products[0].ID)
}

func TestPaginatePageBeyondEnd(t *testing.T) {
	result := Paginate(makeProducts(5, "Kiwi"), nil, 4, 10)

	assert.Empty(t, result.Products)
	assert.NotNil(t, result.Products)
	assert.Equal(t, 5, result.TotalItems)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 4, result.CurrentPage)
}

func TestPaginateEmptyMatchSet(t *testing.T) {
	result := Paginate(nil, nil, 1, 12)

	assert.Empty(t, result.Products)
	assert.NotNil(t, result.Products)
	assert.Equal(t, 0, result.TotalItems)
	assert.Equal(t, 0, result.TotalPages)
}

func TestPaginateStoreFilter(t *testing.T) {
	products := append(makeProducts(3, "Rema 1000"), makeProducts(2, "Kiwi")...)

	result := Paginate(products, []string{"Kiwi"}, 1, 12)

	assert.Equal(t, 2, result.TotalItems)
	for _, p := range result.Products {
		assert.Equal(t, "Kiwi", p.Store.Name)
	}
}

func TestPaginateStoreFilterCaseSensitive(t *testing.T) {
	products := makeProducts(3, "Rema 1000")

	result := Paginate(products, []string{"rema 1000"}, 1, 12)

	assert.Equal(t, 0, result.TotalItems)
	assert.Empty(t, result.Products)
}

func TestPaginateStoreFilterExcludesOnlyMatch(t *testing.T) {
	products := makeProducts(1, "Rema 1000")

	result := Paginate(products, []string{"Kiwi"}, 1, 12)

	assert.Equal(t, 0, result.TotalItems)
	assert.Equal(t, 0, result.TotalPages)
	assert.Empty(t, result.Products)
}

func TestPaginateTotalPagesCeiling(t *testing.T) {
	tests := []struct {
		totalItems int
		pageSize   int
		want       int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
	}

	for _, tt := range tests {
		result := Paginate(makeProducts(tt.totalItems, "Kiwi"), nil, 1, tt.pageSize)
		assert.Equal(t, tt.want, result.TotalPages, "totalItems=%d pageSize=%d", tt.totalItems, tt.pageSize)
	}
}
