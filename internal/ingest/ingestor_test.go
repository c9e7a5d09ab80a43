package ingest

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

type fakeFetcher struct {
	pages    map[int][]domain.Product
	err      error
	errPage  int
	fetched  []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) ([]domain.Product, error) {
	f.fetched = append(f.fetched, page)
	if f.err != nil && page == f.errPage {
		return nil, f.err
	}
	return f.pages[page], nil
}

type fakeIngestRepo struct {
	upserts [][]domain.Product
	err     error
}

func (f *fakeIngestRepo) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeIngestRepo) GetByEAN(ctx context.Context, ean string) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeIngestRepo) ListByStoreCode(ctx context.Context, storeCode string) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeIngestRepo) UpsertBatch(ctx context.Context, products []domain.Product) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.upserts = append(f.upserts, products)
	return len(products), nil
}

type fakeIngestCache struct {
	invalidated []string
	err         error
}

func (f *fakeIngestCache) Get(ctx context.Context, ean string) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeIngestCache) Set(ctx context.Context, ean string, products []domain.Product) error {
	return nil
}

func (f *fakeIngestCache) Invalidate(ctx context.Context, ean string) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, ean)
	return nil
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RefreshCatalog(ctx context.Context) error {
	f.calls++
	return f.err
}

func feedPages() map[int][]domain.Product {
	return map[int][]domain.Product{
		1: {
			{EAN: "111", Name: "Melk", Store: domain.Store{Code: "KIWI"}},
			{EAN: "222", Name: "Ost", Store: domain.Store{Code: "KIWI"}},
		},
		2: {
			{EAN: "333", Name: "Brød", Store: domain.Store{Code: "REMA_1000"}},
		},
	}
}

func TestIngestorRun(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	repo := &fakeIngestRepo{}
	refresher := &fakeRefresher{}
	ing := NewIngestor(fetcher, repo, nil, refresher, 0, slog.New(slog.DiscardHandler))

	require.NoError(t, ing.Run(context.Background()))

	// Pages 1 and 2 hold data, page 3 is empty and ends the run.
	assert.Equal(t, []int{1, 2, 3}, fetcher.fetched)
	require.Len(t, repo.upserts, 2)
	assert.Len(t, repo.upserts[0], 2)
	assert.Len(t, repo.upserts[1], 1)
	assert.Equal(t, 1, refresher.calls)
}

func TestIngestorRunInvalidatesCachedEANs(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	cache := &fakeIngestCache{}
	ing := NewIngestor(fetcher, &fakeIngestRepo{}, cache, &fakeRefresher{}, 0, slog.New(slog.DiscardHandler))

	require.NoError(t, ing.Run(context.Background()))

	assert.ElementsMatch(t, []string{"111", "222", "333"}, cache.invalidated)
}

func TestIngestorRunCacheInvalidationFailureIsNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	cache := &fakeIngestCache{err: errors.New("redis down")}
	refresher := &fakeRefresher{}
	ing := NewIngestor(fetcher, &fakeIngestRepo{}, cache, refresher, 0, slog.New(slog.DiscardHandler))

	require.NoError(t, ing.Run(context.Background()))
	assert.Equal(t, 1, refresher.calls)
}

func TestIngestorRunFetchError(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages(), err: errors.New("feed down"), errPage: 2}
	repo := &fakeIngestRepo{}
	refresher := &fakeRefresher{}
	ing := NewIngestor(fetcher, repo, nil, refresher, 0, slog.New(slog.DiscardHandler))

	err := ing.Run(context.Background())

	assert.ErrorContains(t, err, "ingest page 2")
	assert.Zero(t, refresher.calls)
}

func TestIngestorRunUpsertError(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	repo := &fakeIngestRepo{err: errors.New("db down")}
	refresher := &fakeRefresher{}
	ing := NewIngestor(fetcher, repo, nil, refresher, 0, slog.New(slog.DiscardHandler))

	err := ing.Run(context.Background())

	assert.ErrorContains(t, err, "ingest page 1")
	assert.Zero(t, refresher.calls)
}

func TestIngestorRunRefreshError(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	repo := &fakeIngestRepo{}
	refresher := &fakeRefresher{err: errors.New("broker down")}
	ing := NewIngestor(fetcher, repo, nil, refresher, 0, slog.New(slog.DiscardHandler))

	err := ing.Run(context.Background())

	assert.ErrorContains(t, err, "refresh catalog after ingest")
}

func TestIngestorRunCanceled(t *testing.T) {
	fetcher := &fakeFetcher{pages: feedPages()}
	ing := NewIngestor(fetcher, &fakeIngestRepo{}, nil, &fakeRefresher{}, 0, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ing.Run(ctx), context.Canceled)
	assert.Empty(t, fetcher.fetched)
}

func TestIngestorMaxPagesBound(t *testing.T) {
	// Every page returns data; the run must stop at maxPages.
	fetcher := &fakeFetcher{pages: map[int][]domain.Product{
		1: {{EAN: "1"}}, 2: {{EAN: "2"}}, 3: {{EAN: "3"}}, 4: {{EAN: "4"}},
	}}
	repo := &fakeIngestRepo{}
	ing := NewIngestor(fetcher, repo, nil, &fakeRefresher{}, 2, slog.New(slog.DiscardHandler))

	require.NoError(t, ing.Run(context.Background()))

	assert.Equal(t, []int{1, 2}, fetcher.fetched)
	assert.Len(t, repo.upserts, 2)
}
