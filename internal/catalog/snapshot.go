package catalog

import (
	"sync/atomic"
	"time"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

type offerKey struct {
	ean       string
	storeCode string
}

// Snapshot is an immutable point-in-time view of the product catalog.
// All lookups are read-only; a reload publishes a whole new Snapshot
// through Holder rather than mutating an existing one.
type Snapshot struct {
	products []domain.Product
	byOffer  map[offerKey]int
	byEAN    map[string][]int
	byStore  map[string][]int
	loadedAt time.Time
}

// NewSnapshot builds a snapshot with lookup indexes over the given products.
// The slice is owned by the snapshot after this call.
func NewSnapshot(products []domain.Product) *Snapshot {
	s := &Snapshot{
		products: products,
		byOffer:  make(map[offerKey]int, len(products)),
		byEAN:    make(map[string][]int),
		byStore:  make(map[string][]int),
		loadedAt: time.Now(),
	}

	for i, p := range products {
		if p.EAN != "" {
			key := offerKey{ean: p.EAN, storeCode: p.Store.Code}
			if _, exists := s.byOffer[key]; !exists {
				s.byOffer[key] = i
			}
			s.byEAN[p.EAN] = append(s.byEAN[p.EAN], i)
		}
		if p.Store.Code != "" {
			s.byStore[p.Store.Code] = append(s.byStore[p.Store.Code], i)
		}
	}

	return s
}

// Products returns all products in catalog order. Callers must not mutate
// the returned slice.
func (s *Snapshot) Products() []domain.Product {
	return s.products
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.products)
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// ByEANAndStore looks up the single offer for an (EAN, store code) pair.
func (s *Snapshot) ByEANAndStore(ean, storeCode string) (domain.Product, bool) {
	i, ok := s.byOffer[offerKey{ean: ean, storeCode: storeCode}]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// ByEAN returns every store offer for the given EAN, in catalog order.
func (s *Snapshot) ByEAN(ean string) []domain.Product {
	indexes := s.byEAN[ean]
	if len(indexes) == 0 {
		return nil
	}
	out := make([]domain.Product, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, s.products[i])
	}
	return out
}

// ByStore returns every product offered by the store with the given code.
func (s *Snapshot) ByStore(storeCode string) []domain.Product {
	indexes := s.byStore[storeCode]
	if len(indexes) == 0 {
		return nil
	}
	out := make([]domain.Product, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, s.products[i])
	}
	return out
}

// Holder publishes the current catalog snapshot to concurrent readers.
// Swap installs a fully built snapshot atomically so readers never see
// a partially loaded catalog.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder initialized with an empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(NewSnapshot(nil))
	return h
}

// Current returns the active snapshot. Never nil.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Swap installs a new snapshot and returns the previous one.
func (h *Holder) Swap(s *Snapshot) *Snapshot {
	return h.current.Swap(s)
}
