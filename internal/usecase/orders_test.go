package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"TickForge/internal/domain/models"
)

type stubMarket struct {
	quotes map[string]models.Quote
	buys   map[string]int
	closed bool
	fail   error
}

func (m *stubMarket) Quote(ticker string) (models.Quote, bool) {
	q, ok := m.quotes[ticker]
	return q, ok
}

func (m *stubMarket) MarketOpen() bool { return !m.closed }

func (m *stubMarket) RecordBuy(ticker string, qty int) error {
	if m.fail != nil {
		return m.fail
	}
	if m.buys == nil {
		m.buys = make(map[string]int)
	}
	m.buys[ticker] += qty
	return nil
}

type stubQuoteCache struct {
	quotes map[string]models.Quote
	err    error
	reads  int
}

func (s *stubQuoteCache) SetQuotes(_ context.Context, quotes []models.Quote) error {
	if s.quotes == nil {
		s.quotes = make(map[string]models.Quote)
	}
	for _, q := range quotes {
		s.quotes[q.Ticker] = q
	}
	return nil
}

func (s *stubQuoteCache) GetQuote(_ context.Context, ticker string) (models.Quote, bool, error) {
	s.reads++
	if s.err != nil {
		return models.Quote{}, false, s.err
	}
	q, ok := s.quotes[ticker]
	return q, ok, nil
}

func (s *stubQuoteCache) Close() error { return nil }

func TestBuy(t *testing.T) {
	market := &stubMarket{quotes: map[string]models.Quote{
		"SOLR": {Ticker: "SOLR", Price: 41.61},
	}}
	cache := &stubQuoteCache{}
	uc := NewOrdersUseCase(market, cache)

	res, err := uc.Buy(context.Background(), BuyParams{Ticker: "SOLR", Qty: 100})
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if res.Price != 41.61 {
		t.Errorf("price = %v", res.Price)
	}
	if math.Abs(res.Cost-4161.0) > 1e-9 {
		t.Errorf("cost = %v, want 4161", res.Cost)
	}
	if market.buys["SOLR"] != 100 {
		t.Errorf("recorded qty = %d, want 100", market.buys["SOLR"])
	}
	if cache.reads != 1 {
		t.Errorf("cache reads = %d, want 1", cache.reads)
	}
}

func TestBuyPricesFromCache(t *testing.T) {
	market := &stubMarket{quotes: map[string]models.Quote{
		"SOLR": {Ticker: "SOLR", Price: 41.61},
	}}
	cache := &stubQuoteCache{quotes: map[string]models.Quote{
		"SOLR": {Ticker: "SOLR", Price: 42.50},
	}}
	uc := NewOrdersUseCase(market, cache)

	res, err := uc.Buy(context.Background(), BuyParams{Ticker: "SOLR", Qty: 10})
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if res.Price != 42.50 {
		t.Errorf("price = %v, want the cached 42.50", res.Price)
	}
	if math.Abs(res.Cost-425.0) > 1e-9 {
		t.Errorf("cost = %v, want 425", res.Cost)
	}
}

func TestBuyFallsBackOnCacheError(t *testing.T) {
	market := &stubMarket{quotes: map[string]models.Quote{
		"SOLR": {Ticker: "SOLR", Price: 41.61},
	}}
	cache := &stubQuoteCache{err: errors.New("backend down")}
	uc := NewOrdersUseCase(market, cache)

	res, err := uc.Buy(context.Background(), BuyParams{Ticker: "SOLR", Qty: 10})
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if res.Price != 41.61 {
		t.Errorf("price = %v, want the engine's 41.61", res.Price)
	}
}

func TestBuyValidation(t *testing.T) {
	market := &stubMarket{quotes: map[string]models.Quote{
		"SOLR": {Ticker: "SOLR", Price: 41.61},
	}}
	uc := NewOrdersUseCase(market, &stubQuoteCache{})
	ctx := context.Background()

	if _, err := uc.Buy(ctx, BuyParams{Ticker: "", Qty: 10}); err == nil {
		t.Error("empty ticker accepted")
	}
	if _, err := uc.Buy(ctx, BuyParams{Ticker: "SOLR", Qty: 0}); err == nil {
		t.Error("zero qty accepted")
	}
	if _, err := uc.Buy(ctx, BuyParams{Ticker: "SOLR", Qty: -5}); err == nil {
		t.Error("negative qty accepted")
	}
	if _, err := uc.Buy(ctx, BuyParams{Ticker: "SOLR", Qty: MaxOrderQty + 1}); err == nil {
		t.Error("oversized qty accepted")
	}
	if _, err := uc.Buy(ctx, BuyParams{Ticker: "NOPE", Qty: 10}); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("unknown ticker: err = %v, want ErrUnknownTicker", err)
	}
	if len(market.buys) != 0 {
		t.Errorf("rejected orders reached the market: %v", market.buys)
	}
}

func TestBuyMarketClosed(t *testing.T) {
	market := &stubMarket{
		quotes: map[string]models.Quote{"SOLR": {Ticker: "SOLR", Price: 41.61}},
		closed: true,
	}
	uc := NewOrdersUseCase(market, &stubQuoteCache{})

	if _, err := uc.Buy(context.Background(), BuyParams{Ticker: "SOLR", Qty: 10}); !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("err = %v, want ErrMarketClosed", err)
	}
	if len(market.buys) != 0 {
		t.Errorf("closed-market order reached the market: %v", market.buys)
	}
}
