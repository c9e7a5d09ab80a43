package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vindenez/Matplaner-backend/internal/catalog"
	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/internal/repository"
	"github.com/vindenez/Matplaner-backend/internal/search"
	apperrors "github.com/vindenez/Matplaner-backend/pkg/errors"
	"github.com/vindenez/Matplaner-backend/pkg/pagination"
)

var (
	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_search_requests_total",
			Help: "Product searches by the match tier that produced the result",
		},
		[]string{"tier"},
	)

	catalogSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_products",
			Help: "Number of products in the active catalog snapshot",
		},
	)
)

// CatalogEventPublisher announces catalog reloads to other instances.
type CatalogEventPublisher interface {
	PublishCatalogRefreshed(ctx context.Context, productCount int) error
}

// ProductService implements product search, ingredient matching and
// catalog lifecycle on top of an in-memory snapshot.
type ProductService struct {
	repo      repository.ProductRepository
	cache     repository.ProductCache
	holder    *catalog.Holder
	publisher CatalogEventPublisher
	logger    *slog.Logger
}

// NewProductService creates a new product service. cache and publisher
// may be nil; the corresponding behavior is then skipped.
func NewProductService(
	repo repository.ProductRepository,
	cache repository.ProductCache,
	holder *catalog.Holder,
	publisher CatalogEventPublisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		cache:     cache,
		holder:    holder,
		publisher: publisher,
		logger:    logger,
	}
}

// Search runs a free-text product search against the active snapshot.
// Page and pageSize fall back to defaults when out of range. An empty
// query yields an empty result, not an error.
func (s *ProductService) Search(ctx context.Context, query string, selectedStores []string, page, pageSize int) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}

	params := pagination.Params{Page: page, PageSize: pageSize}.Normalize()

	snap := s.holder.Current()
	result, tier := search.Search(snap.Products(), query, selectedStores, params.Page, params.PageSize)
	searchRequestsTotal.WithLabelValues(string(tier)).Inc()

	// A canceled caller gets no result, not a truncated one.
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}

	s.logger.DebugContext(ctx, "product search",
		slog.String("tier", string(tier)),
		slog.Int("total_items", result.TotalItems),
		slog.Int("page", params.Page),
	)

	return result, nil
}

// MatchIngredients resolves ingredient references against the snapshot by
// exact (EAN, store code) lookup. Unresolved ingredients come back with
// an empty match list.
func (s *ProductService) MatchIngredients(ctx context.Context, ingredients []domain.Ingredient) ([]domain.IngredientMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return search.ResolveIngredients(s.holder.Current(), ingredients), nil
}

// EstimatePrice resolves ingredients and sums the matched offer prices.
func (s *ProductService) EstimatePrice(ctx context.Context, ingredients []domain.Ingredient) (domain.PriceEstimate, error) {
	matches, err := s.MatchIngredients(ctx, ingredients)
	if err != nil {
		return domain.PriceEstimate{}, err
	}
	return search.EstimatePrice(matches), nil
}

// GetByEAN returns every store offer for an EAN, reading through the
// Redis cache when one is configured.
func (s *ProductService) GetByEAN(ctx context.Context, ean string) ([]domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ean)
		if err != nil {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("ean", ean),
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.repo.GetByEAN(ctx, ean)
	if err != nil {
		return nil, apperrors.Unavailable("catalog", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("product", ean)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ean, products); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.String("ean", ean),
				slog.String("error", err.Error()),
			)
		}
	}

	return products, nil
}

// ListByStore returns all products a store offers.
func (s *ProductService) ListByStore(ctx context.Context, storeCode string) ([]domain.Product, error) {
	products, err := s.repo.ListByStoreCode(ctx, storeCode)
	if err != nil {
		return nil, apperrors.Unavailable("catalog", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// RefreshCatalog reloads the snapshot from the database and announces
// the reload so other instances can follow.
func (s *ProductService) RefreshCatalog(ctx context.Context) error {
	count, err := s.ReloadSnapshot(ctx)
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCatalogRefreshed(ctx, count); err != nil {
			// The local snapshot is already live; peers catch up on the
			// next scheduled refresh.
			s.logger.ErrorContext(ctx, "failed to publish catalog refresh",
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// ReloadSnapshot rebuilds the in-memory snapshot from the database and
// swaps it in atomically. Returns the product count of the new snapshot.
func (s *ProductService) ReloadSnapshot(ctx context.Context) (int, error) {
	products, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	snap := catalog.NewSnapshot(products)
	s.holder.Swap(snap)
	catalogSnapshotSize.Set(float64(snap.Len()))

	s.logger.InfoContext(ctx, "catalog snapshot reloaded",
		slog.Int("products", snap.Len()),
	)

	return snap.Len(), nil
}
