package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"TickForge/internal/domain/models"
	pkgcache "TickForge/pkg/cache"
)

// mapCache backs the cache Service with a plain map for tests.
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return pkgcache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) DeleteByPattern(context.Context, string) error { return nil }

func (c *mapCache) Exists(_ context.Context, keys ...string) (bool, error) {
	for _, k := range keys {
		if _, ok := c.data[k]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *mapCache) Increment(context.Context, string) (int64, error) { return 0, nil }

func (c *mapCache) Expire(context.Context, string, time.Duration) (bool, error) {
	return false, nil
}

func (c *mapCache) MSet(ctx context.Context, values map[string]interface{}, ttl time.Duration) error {
	for k, v := range values {
		if err := c.Set(ctx, k, v, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (c *mapCache) MGet(_ context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if b, ok := c.data[k]; ok {
			out[k] = string(b)
		}
	}
	return out, nil
}

func (c *mapCache) TryLock(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (c *mapCache) Unlock(context.Context, string) error { return nil }

func TestCachedQuoteStore(t *testing.T) {
	backend := newMapCache()
	store := NewCachedQuoteStore(backend, time.Minute)
	ctx := context.Background()

	quotes := []models.Quote{
		{Ticker: "SOLR", Price: 41.61, Change: 0.32, Volume: 12000, Day: 3, Time: 600},
		{Ticker: "KRAB", Price: 8.12, Change: -0.05, Volume: 900, Day: 3, Time: 600},
	}
	if err := store.SetQuotes(ctx, quotes); err != nil {
		t.Fatalf("SetQuotes: %v", err)
	}

	got, found, err := store.GetQuote(ctx, "SOLR")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if !found {
		t.Fatal("SOLR not found after SetQuotes")
	}
	if got != quotes[0] {
		t.Errorf("quote = %+v, want %+v", got, quotes[0])
	}

	// keys are namespaced so unrelated entries cannot collide with tickers
	if _, ok := backend.data["SOLR"]; ok {
		t.Error("quote stored under bare ticker key")
	}
	if _, ok := backend.data["quote:SOLR"]; !ok {
		t.Error("quote not stored under quote: prefix")
	}

	_, found, err = store.GetQuote(ctx, "NOPE")
	if err != nil {
		t.Fatalf("GetQuote miss: %v", err)
	}
	if found {
		t.Error("unknown ticker reported as found")
	}
}

func TestCachedQuoteStoreOverwrite(t *testing.T) {
	store := NewCachedQuoteStore(newMapCache(), 0)
	ctx := context.Background()

	if err := store.SetQuotes(ctx, []models.Quote{{Ticker: "SOLR", Price: 41.61, Day: 3, Time: 600}}); err != nil {
		t.Fatalf("SetQuotes: %v", err)
	}
	if err := store.SetQuotes(ctx, []models.Quote{{Ticker: "SOLR", Price: 42.02, Day: 3, Time: 605}}); err != nil {
		t.Fatalf("SetQuotes: %v", err)
	}

	got, found, err := store.GetQuote(ctx, "SOLR")
	if err != nil || !found {
		t.Fatalf("GetQuote: found=%v err=%v", found, err)
	}
	if got.Price != 42.02 || got.Time != 605 {
		t.Errorf("quote = %+v, want the later tick", got)
	}
}

func TestCachedQuoteStoreEmptyBatch(t *testing.T) {
	backend := newMapCache()
	store := NewCachedQuoteStore(backend, time.Minute)

	if err := store.SetQuotes(context.Background(), nil); err != nil {
		t.Fatalf("SetQuotes(nil): %v", err)
	}
	if len(backend.data) != 0 {
		t.Errorf("empty batch wrote %d keys", len(backend.data))
	}
}

func TestMemoryQuoteStore(t *testing.T) {
	store := NewMemoryQuoteStore()
	ctx := context.Background()

	if err := store.SetQuotes(ctx, []models.Quote{
		{Ticker: "SOLR", Price: 41.61, Day: 1, Time: 570},
		{Ticker: "KRAB", Price: 8.12, Day: 1, Time: 570},
	}); err != nil {
		t.Fatalf("SetQuotes: %v", err)
	}

	got, found, err := store.GetQuote(ctx, "KRAB")
	if err != nil || !found {
		t.Fatalf("GetQuote: found=%v err=%v", found, err)
	}
	if got.Price != 8.12 {
		t.Errorf("price = %v, want 8.12", got.Price)
	}

	if err := store.SetQuotes(ctx, []models.Quote{{Ticker: "KRAB", Price: 8.40, Day: 1, Time: 575}}); err != nil {
		t.Fatalf("SetQuotes: %v", err)
	}
	got, _, _ = store.GetQuote(ctx, "KRAB")
	if got.Price != 8.40 {
		t.Errorf("price = %v, want the overwrite 8.40", got.Price)
	}

	if _, found, _ := store.GetQuote(ctx, "NOPE"); found {
		t.Error("unknown ticker reported as found")
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
