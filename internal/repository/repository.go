package repository

import (
	"context"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// ProductRepository defines the persistence operations for the product catalog.
type ProductRepository interface {
	// LoadCatalog reads the full catalog in stable order for snapshot builds.
	LoadCatalog(ctx context.Context) ([]domain.Product, error)

	// GetByEAN returns every store offer for the given EAN.
	GetByEAN(ctx context.Context, ean string) ([]domain.Product, error)

	// ListByStoreCode returns all products offered by a single store.
	ListByStoreCode(ctx context.Context, storeCode string) ([]domain.Product, error)

	// UpsertBatch writes a batch of products keyed by (ean, store_code),
	// inserting new offers and updating existing ones.
	UpsertBatch(ctx context.Context, products []domain.Product) (int, error)
}

// ProductCache caches store offers keyed by EAN.
type ProductCache interface {
	// Get returns the cached offers for an EAN, or (nil, nil) on a miss.
	Get(ctx context.Context, ean string) ([]domain.Product, error)

	// Set stores the offers for an EAN with the cache's configured TTL.
	Set(ctx context.Context, ean string, products []domain.Product) error

	// Invalidate removes the cached entry for an EAN.
	Invalidate(ctx context.Context, ean string) error
}
