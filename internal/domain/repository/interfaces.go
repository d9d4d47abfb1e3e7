package repository

import (
	"context"
	"time"

	"TickForge/internal/domain/models"
)

// GameStore is the durable game-state store: instruments, their candle logs
// and the market clock. SaveState replaces each instrument's candle rows
// wholesale so stale rows never survive a save.
type GameStore interface {
	Init(ctx context.Context) error // ensure schema
	LoadClock(ctx context.Context) (models.ClockState, bool, error)
	LoadInstruments(ctx context.Context) ([]*models.Instrument, error)
	SaveState(ctx context.Context, clock models.ClockState, instruments []*models.Instrument) error
	SeedUniverse(ctx context.Context, instruments []*models.Instrument) error
	CountInstruments(ctx context.Context) (int, error)
	Health(ctx context.Context) error
	Close() error
}

// TickLog is an append-only analytics sink for tick snapshots.
type TickLog interface {
	AppendTicks(ctx context.Context, ts time.Time, quotes []models.Quote) error
	Health(ctx context.Context) error
	Close() error
}

// BusPublisher fans tick snapshots and news events out to the message bus.
type BusPublisher interface {
	PublishTicks(ctx context.Context, quotes []models.Quote) error
	PublishNews(ctx context.Context, events []models.NewsEvent) error
	Close() error
}

// QuoteCache holds the latest quote per ticker for cheap point reads.
type QuoteCache interface {
	SetQuotes(ctx context.Context, quotes []models.Quote) error
	GetQuote(ctx context.Context, ticker string) (models.Quote, bool, error)
	Close() error
}

// Metrics records simulation observability signals.
type Metrics interface {
	RecordTick(seconds float64, instruments int)
	RecordLastPrice(ticker string, price float64)
	RecordBreakout(ticker string)
	RecordNewsPublished(n int)
	RecordSave(seconds float64)
	RecordError(kind string)
}
