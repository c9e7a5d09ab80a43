package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/pkg/database"
)

func setupRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProductRepository(mock), mock
}

func productTestColumns() []string {
	return []string{
		"id", "ean", "name",
		"brand", "vendor", "description",
		"image_url", "url",
		"store_name", "store_code", "store_url", "store_logo",
		"categories",
		"current_price", "current_unit_price",
		"weight", "weight_unit",
	}
}

func sampleRow(rows *pgxmock.Rows, id int64, ean, name, storeCode string, price float64) *pgxmock.Rows {
	categories, _ := json.Marshal([]domain.Category{{ID: 10, Depth: 0, Name: "Meieri"}})
	return rows.AddRow(
		id, ean, name,
		"Tine", "TINE SA", "",
		"", "",
		"Rema 1000", storeCode, "", "",
		categories,
		price, 24.90,
		1.0, "l",
	)
}

func TestLoadCatalog(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := pgxmock.NewRows(productTestColumns())
	rows = sampleRow(rows, 1, "7311041027134", "Tine Helmelk", "REMA_1000", 24.90)
	rows = sampleRow(rows, 2, "7311041027134", "Tine Helmelk", "KIWI", 23.50)

	mock.ExpectQuery(`WHERE current_price >= \$1\s+ORDER BY id`).
		WithArgs(minCurrentPrice).
		WillReturnRows(rows)

	products, err := repo.LoadCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Tine Helmelk", products[0].Name)
	assert.Equal(t, "Tine", products[0].Brand)
	assert.Equal(t, "REMA_1000", products[0].Store.Code)
	require.Len(t, products[0].Categories, 1)
	assert.Equal(t, "Meieri", products[0].Categories[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCatalogEmpty(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`WHERE current_price >= \$1`).
		WithArgs(minCurrentPrice).
		WillReturnRows(pgxmock.NewRows(productTestColumns()))

	products, err := repo.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestLoadCatalogQueryError(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`WHERE current_price >= \$1`).
		WithArgs(minCurrentPrice).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.LoadCatalog(context.Background())

	assert.ErrorContains(t, err, "load catalog")
}

func TestGetByEAN(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := sampleRow(pgxmock.NewRows(productTestColumns()), 2, "7311041027134", "Tine Helmelk", "KIWI", 23.50)

	mock.ExpectQuery(`WHERE ean = \$1 AND current_price >= \$2\s+ORDER BY store_code`).
		WithArgs("7311041027134", minCurrentPrice).
		WillReturnRows(rows)

	products, err := repo.GetByEAN(context.Background(), "7311041027134")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "KIWI", products[0].Store.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStoreCode(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := sampleRow(pgxmock.NewRows(productTestColumns()), 1, "7311041027134", "Tine Helmelk", "KIWI", 23.50)

	mock.ExpectQuery(`WHERE store_code = \$1 AND current_price >= \$2\s+ORDER BY id`).
		WithArgs("KIWI", minCurrentPrice).
		WillReturnRows(rows)

	products, err := repo.ListByStoreCode(context.Background(), "KIWI")

	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatch(t *testing.T) {
	repo, mock := setupRepo(t)

	products := []domain.Product{
		{
			EAN:          "7311041027134",
			Name:         "Tine Helmelk",
			Brand:        "Tine",
			Store:        domain.Store{Name: "Kiwi", Code: "KIWI"},
			CurrentPrice: 23.50,
		},
		{
			EAN:          "7038010055164",
			Name:         "Norvegia Skivet",
			Store:        domain.Store{Name: "Kiwi", Code: "KIWI"},
			CurrentPrice: 89.90,
		},
	}

	eb := mock.ExpectBatch()
	for range products {
		eb.ExpectExec(`INSERT INTO products`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	written, err := repo.UpsertBatch(context.Background(), products)

	require.NoError(t, err)
	assert.Equal(t, 2, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchEmpty(t *testing.T) {
	repo, _ := setupRepo(t)

	written, err := repo.UpsertBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestUpsertBatchExecError(t *testing.T) {
	repo, mock := setupRepo(t)

	eb := mock.ExpectBatch()
	eb.ExpectExec(`INSERT INTO products`).
		WillReturnError(errors.New("deadlock detected"))

	_, err := repo.UpsertBatch(context.Background(), []domain.Product{
		{EAN: "111", Name: "Melk", Store: domain.Store{Code: "KIWI"}},
	})

	assert.ErrorContains(t, err, "upsert product batch")
}
