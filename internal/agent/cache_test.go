package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"elevate-agent/internal/model"
)

type countingLister struct {
	calls    int
	products []model.Product
	err      error
}

func (c *countingLister) ListProducts(ctx context.Context) ([]model.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.products, nil
}

func TestCatalogCacheServesFreshWithinTTL(t *testing.T) {
	lister := &countingLister{products: testCatalog()}
	cache := newCatalogCache(lister)

	t0 := time.Now()
	cache.now = func() time.Time { return t0 }
	cache.Products(context.Background())

	cache.now = func() time.Time { return t0.Add(catalogTTL - time.Second) }
	cache.Products(context.Background())
	if lister.calls != 1 {
		t.Errorf("calls = %d, want 1 within TTL", lister.calls)
	}

	cache.now = func() time.Time { return t0.Add(catalogTTL + time.Second) }
	cache.Products(context.Background())
	if lister.calls != 2 {
		t.Errorf("calls = %d, want refetch after TTL", lister.calls)
	}
}

func TestCatalogCacheServesStaleOnFailure(t *testing.T) {
	lister := &countingLister{products: testCatalog()}
	cache := newCatalogCache(lister)

	t0 := time.Now()
	cache.now = func() time.Time { return t0 }
	cache.Products(context.Background())

	lister.err = errors.New("storefront down")
	cache.now = func() time.Time { return t0.Add(catalogTTL + time.Minute) }
	products := cache.Products(context.Background())
	if len(products) != len(testCatalog()) {
		t.Fatalf("got %d products, want stale catalog", len(products))
	}
}

func TestCatalogCacheEmptyOnFirstFailure(t *testing.T) {
	lister := &countingLister{err: errors.New("storefront down")}
	cache := newCatalogCache(lister)

	products := cache.Products(context.Background())
	if products == nil || len(products) != 0 {
		t.Fatalf("products = %v, want empty non-nil slice", products)
	}
}
