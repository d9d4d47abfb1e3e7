package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"TickForge/internal/domain/models"
	"TickForge/internal/domain/repository"
	pkgcache "TickForge/pkg/cache"
)

// CachedQuoteStore keeps the latest quote per ticker in a cache backend
// (Redis in production, in-memory in tests) for cheap point reads.
type CachedQuoteStore struct {
	cache pkgcache.Service
	ttl   time.Duration
}

// NewCachedQuoteStore creates a quote cache on top of a cache backend.
// A zero ttl means quotes never expire.
func NewCachedQuoteStore(cache pkgcache.Service, ttl time.Duration) repository.QuoteCache {
	return &CachedQuoteStore{cache: cache, ttl: ttl}
}

func quoteKey(ticker string) string {
	return "quote:" + ticker
}

func (s *CachedQuoteStore) SetQuotes(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(quotes))
	for _, q := range quotes {
		values[quoteKey(q.Ticker)] = q
	}
	return s.cache.MSet(ctx, values, s.ttl)
}

func (s *CachedQuoteStore) GetQuote(ctx context.Context, ticker string) (models.Quote, bool, error) {
	var q models.Quote
	err := s.cache.Get(ctx, quoteKey(ticker), &q)
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return models.Quote{}, false, nil
	}
	if err != nil {
		return models.Quote{}, false, err
	}
	return q, true, nil
}

func (s *CachedQuoteStore) Close() error {
	return nil // backend owned by caller
}

// MemoryQuoteStore is the in-process fallback used when Redis is disabled.
type MemoryQuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote
}

// NewMemoryQuoteStore creates an in-memory quote store.
func NewMemoryQuoteStore() *MemoryQuoteStore {
	return &MemoryQuoteStore{quotes: make(map[string]models.Quote)}
}

func (s *MemoryQuoteStore) SetQuotes(_ context.Context, quotes []models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quotes {
		s.quotes[q.Ticker] = q
	}
	return nil
}

func (s *MemoryQuoteStore) GetQuote(_ context.Context, ticker string) (models.Quote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[ticker]
	return q, ok, nil
}

func (s *MemoryQuoteStore) Close() error {
	return nil
}
