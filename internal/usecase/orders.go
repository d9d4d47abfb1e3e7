package usecase

import (
	"context"
	"errors"
	"fmt"

	"TickForge/internal/domain/models"
	domrepo "TickForge/internal/domain/repository"
)

// ErrUnknownTicker rejects orders for instruments outside the universe.
var ErrUnknownTicker = errors.New("unknown ticker")

// ErrMarketClosed rejects orders placed outside trading hours.
var ErrMarketClosed = errors.New("market closed")

// MarketAccess is the slice of the simulation the order flow needs.
type MarketAccess interface {
	Quote(ticker string) (models.Quote, bool)
	MarketOpen() bool
	RecordBuy(ticker string, qty int) error
}

// OrdersUseCase validates incoming buy orders and feeds accepted ones into
// the order-flow tracker so demand moves the simulated price. Orders are
// priced off the quote cache; the engine is the fallback on a cache miss.
type OrdersUseCase struct {
	market MarketAccess
	quotes domrepo.QuoteCache
}

func NewOrdersUseCase(market MarketAccess, quotes domrepo.QuoteCache) *OrdersUseCase {
	return &OrdersUseCase{market: market, quotes: quotes}
}

// MaxOrderQty caps a single buy so one request cannot distort the book.
const MaxOrderQty = 1_000_000

type BuyParams struct {
	Ticker string `json:"ticker" validate:"required"`
	Qty    int    `json:"qty" validate:"required,gt=0"`
}

type BuyResult struct {
	Ticker string  `json:"ticker"`
	Qty    int     `json:"qty"`
	Price  float64 `json:"price"`
	Cost   float64 `json:"cost"`
}

// Buy accepts a market buy at the current simulated price.
func (uc *OrdersUseCase) Buy(ctx context.Context, p BuyParams) (*BuyResult, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if p.Qty <= 0 {
		return nil, fmt.Errorf("qty must be > 0")
	}
	if p.Qty > MaxOrderQty {
		return nil, fmt.Errorf("qty exceeds limit of %d", MaxOrderQty)
	}

	price, err := uc.priceFor(ctx, p.Ticker)
	if err != nil {
		return nil, err
	}
	if !uc.market.MarketOpen() {
		return nil, ErrMarketClosed
	}

	if err := uc.market.RecordBuy(p.Ticker, p.Qty); err != nil {
		return nil, fmt.Errorf("record buy: %w", err)
	}

	return &BuyResult{
		Ticker: p.Ticker,
		Qty:    p.Qty,
		Price:  price,
		Cost:   price * float64(p.Qty),
	}, nil
}

// priceFor reads the latest quote from the cache, falling back to the live
// engine state on a miss or cache error. The cache only ever holds tickers
// from the simulated universe, so a hit needs no extra existence check.
func (uc *OrdersUseCase) priceFor(ctx context.Context, ticker string) (float64, error) {
	if uc.quotes != nil {
		if q, ok, err := uc.quotes.GetQuote(ctx, ticker); err == nil && ok {
			return q.Price, nil
		}
	}
	q, ok := uc.market.Quote(ticker)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return q.Price, nil
}
