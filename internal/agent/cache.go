package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"elevate-agent/internal/model"
)

// catalogTTL bounds how long a fetched product list is served before the
// storefront is asked again.
const catalogTTL = 5 * time.Minute

// catalogLister is the slice of the storefront the cache needs.
type catalogLister interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// catalogCache caches the flattened product list. The catalog changes
// rarely and every chat turn needs it, so a short TTL keeps storefront
// traffic flat without serving meaningfully stale data.
//
// The fetch runs outside the lock; concurrent refreshes are allowed and
// the last writer wins, which is harmless for an identical product list.
type catalogCache struct {
	store catalogLister
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	products  []model.Product
	fetchedAt time.Time
}

func newCatalogCache(store catalogLister) *catalogCache {
	return &catalogCache{
		store: store,
		ttl:   catalogTTL,
		now:   time.Now,
	}
}

// Products returns the cached catalog, refreshing it when the TTL has
// elapsed. On refresh failure a stale copy is returned if one exists,
// keeping the assistant partially working through storefront outages;
// otherwise an empty list.
func (c *catalogCache) Products(ctx context.Context) []model.Product {
	c.mu.Lock()
	cached := c.products
	fresh := len(cached) > 0 && c.now().Sub(c.fetchedAt) < c.ttl
	c.mu.Unlock()

	if fresh {
		return cached
	}

	products, err := c.store.ListProducts(ctx)
	if err != nil {
		if len(cached) > 0 {
			slog.Warn("catalog refresh failed, serving stale cache", "error", err)
			return cached
		}
		slog.Error("catalog fetch failed with empty cache", "error", err)
		return []model.Product{}
	}

	c.mu.Lock()
	c.products = products
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return products
}
