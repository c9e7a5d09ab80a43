package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/pkg/database"
)

// minCurrentPrice filters out placeholder and delisted offers that the
// upstream price feed reports with a near-zero price.
const minCurrentPrice = 1.0

const productColumns = `
	id, ean, name,
	COALESCE(brand, ''), COALESCE(vendor, ''), COALESCE(description, ''),
	COALESCE(image_url, ''), COALESCE(url, ''),
	COALESCE(store_name, ''), COALESCE(store_code, ''),
	COALESCE(store_url, ''), COALESCE(store_logo, ''),
	categories,
	current_price, COALESCE(current_unit_price, 0),
	COALESCE(weight, 0), COALESCE(weight_unit, '')`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// LoadCatalog reads every product above the price floor in insertion order.
func (r *ProductRepository) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE current_price >= $1
		ORDER BY id`, productColumns)

	rows, err := r.db.Query(ctx, query, minCurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByEAN returns every store offer for the given EAN above the price floor.
func (r *ProductRepository) GetByEAN(ctx context.Context, ean string) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE ean = $1 AND current_price >= $2
		ORDER BY store_code`, productColumns)

	rows, err := r.db.Query(ctx, query, ean, minCurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("get products by ean: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListByStoreCode returns all of a store's products above the price floor.
func (r *ProductRepository) ListByStoreCode(ctx context.Context, storeCode string) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE store_code = $1 AND current_price >= $2
		ORDER BY id`, productColumns)

	rows, err := r.db.Query(ctx, query, storeCode, minCurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("list products by store: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// UpsertBatch writes products keyed by (ean, store_code) in a single batch
// round trip. Returns the number of rows written.
func (r *ProductRepository) UpsertBatch(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (
			ean, name, brand, vendor, description, image_url, url,
			store_name, store_code, store_url, store_logo, categories,
			current_price, current_unit_price, weight, weight_unit, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (ean, store_code) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			vendor = EXCLUDED.vendor,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			url = EXCLUDED.url,
			store_name = EXCLUDED.store_name,
			store_url = EXCLUDED.store_url,
			store_logo = EXCLUDED.store_logo,
			categories = EXCLUDED.categories,
			current_price = EXCLUDED.current_price,
			current_unit_price = EXCLUDED.current_unit_price,
			weight = EXCLUDED.weight,
			weight_unit = EXCLUDED.weight_unit,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for i := range products {
		p := &products[i]

		categoriesJSON, err := json.Marshal(p.Categories)
		if err != nil {
			return 0, fmt.Errorf("marshal categories for ean %s: %w", p.EAN, err)
		}

		batch.Queue(query,
			p.EAN,
			p.Name,
			p.Brand,
			p.Vendor,
			p.Description,
			p.ImageURL,
			p.URL,
			p.Store.Name,
			p.Store.Code,
			p.Store.URL,
			p.Store.Logo,
			categoriesJSON,
			p.CurrentPrice,
			p.CurrentUnitPrice,
			p.Weight,
			p.WeightUnit,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for range products {
		ct, err := br.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert product batch: %w", err)
		}
		written += int(ct.RowsAffected())
	}

	return written, nil
}

// scanProducts reads rows produced by a SELECT over productColumns.
func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product

	for rows.Next() {
		var (
			p              domain.Product
			categoriesJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.EAN,
			&p.Name,
			&p.Brand,
			&p.Vendor,
			&p.Description,
			&p.ImageURL,
			&p.URL,
			&p.Store.Name,
			&p.Store.Code,
			&p.Store.URL,
			&p.Store.Logo,
			&categoriesJSON,
			&p.CurrentPrice,
			&p.CurrentUnitPrice,
			&p.Weight,
			&p.WeightUnit,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if categoriesJSON != nil {
			if err := json.Unmarshal(categoriesJSON, &p.Categories); err != nil {
				return nil, fmt.Errorf("unmarshal categories: %w", err)
			}
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
