package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/internal/repository"
)

// DefaultSchedule runs the ingestion every morning at 07:00.
const DefaultSchedule = "0 7 * * *"

var (
	ingestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_runs_total",
			Help: "Catalog ingestion runs by outcome",
		},
		[]string{"status"},
	)

	ingestProductsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_ingest_products_total",
			Help: "Products written by catalog ingestion runs",
		},
	)

	ingestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_ingest_duration_seconds",
			Help:    "Duration of catalog ingestion runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// Fetcher retrieves one page of products from the upstream feed.
// An empty page signals the end of the feed.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]domain.Product, error)
}

// CatalogRefresher swaps in a fresh snapshot after an ingestion run.
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context) error
}

// Ingestor pulls the full product feed page by page, upserts it into the
// database and triggers a snapshot refresh when done. Cached per-EAN
// entries are invalidated as their rows are rewritten.
type Ingestor struct {
	fetcher   Fetcher
	repo      repository.ProductRepository
	cache     repository.ProductCache
	refresher CatalogRefresher
	maxPages  int
	logger    *slog.Logger
}

// NewIngestor creates an ingestor. cache may be nil. maxPages bounds a
// single run; zero or negative means 1000.
func NewIngestor(fetcher Fetcher, repo repository.ProductRepository, cache repository.ProductCache, refresher CatalogRefresher, maxPages int, logger *slog.Logger) *Ingestor {
	if maxPages <= 0 {
		maxPages = 1000
	}
	return &Ingestor{
		fetcher:   fetcher,
		repo:      repo,
		cache:     cache,
		refresher: refresher,
		maxPages:  maxPages,
		logger:    logger,
	}
}

// Run executes one full ingestion pass.
func (i *Ingestor) Run(ctx context.Context) error {
	start := time.Now()
	written := 0

	for page := 1; page <= i.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			ingestRunsTotal.WithLabelValues("canceled").Inc()
			return err
		}

		products, err := i.fetcher.FetchPage(ctx, page)
		if err != nil {
			ingestRunsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("ingest page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}

		n, err := i.repo.UpsertBatch(ctx, products)
		if err != nil {
			ingestRunsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("ingest page %d: %w", page, err)
		}
		written += n
		ingestProductsTotal.Add(float64(n))
		i.invalidateCached(ctx, products)
	}

	if err := i.refresher.RefreshCatalog(ctx); err != nil {
		ingestRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh catalog after ingest: %w", err)
	}

	elapsed := time.Since(start)
	ingestDuration.Observe(elapsed.Seconds())
	ingestRunsTotal.WithLabelValues("success").Inc()

	i.logger.InfoContext(ctx, "catalog ingestion completed",
		slog.Int("products", written),
		slog.Duration("elapsed", elapsed),
	)

	return nil
}

// invalidateCached drops the cache entry for every EAN the batch rewrote
// so later reads see the fresh prices. A stale entry just lives out its
// TTL, so failures are logged and not fatal.
func (i *Ingestor) invalidateCached(ctx context.Context, products []domain.Product) {
	if i.cache == nil {
		return
	}

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.EAN == "" {
			continue
		}
		if _, ok := seen[p.EAN]; ok {
			continue
		}
		seen[p.EAN] = struct{}{}
		if err := i.cache.Invalidate(ctx, p.EAN); err != nil {
			i.logger.WarnContext(ctx, "product cache invalidation failed",
				slog.String("ean", p.EAN),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Schedule registers the ingestion run on the given cron scheduler.
// ctx bounds the lifetime of scheduled runs.
func (i *Ingestor) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultSchedule
	}

	return c.AddFunc(spec, func() {
		if err := i.Run(ctx); err != nil {
			i.logger.Error("scheduled catalog ingestion failed",
				slog.String("error", err.Error()),
			)
		}
	})
}
