package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"TickForge/internal/domain/models"
)

// Config tunes the engine. Zero values fall back to the classic session:
// 5 simulated minutes per tick, 9:30-16:00 trading, 10-day seasons.
type Config struct {
	MinutesPerTick int
	MarketOpen     int
	MarketClose    int
	DaysPerSeason  int
	PricePrecision int
	Seed           int64
}

func (c *Config) setDefaults() {
	if c.MinutesPerTick <= 0 {
		c.MinutesPerTick = 5
	}
	if c.MarketOpen <= 0 {
		c.MarketOpen = 570
	}
	if c.MarketClose <= 0 {
		c.MarketClose = 960
	}
	if c.DaysPerSeason <= 0 {
		c.DaysPerSeason = 10
	}
	if c.PricePrecision <= 0 {
		c.PricePrecision = 2
	}
}

// TickResult bundles everything one engine tick produced.
type TickResult struct {
	Day        int
	Time       int
	MarketOpen bool
	Snapshots  []models.Quote
	News       []models.NewsEvent
}

// Engine owns the market clock, the sentiment field, the order-flow tracker
// and every instrument, and advances them all by one tick at a time. It is
// not safe for concurrent use; callers serialize access (one tick runs to
// completion before any state is read).
type Engine struct {
	cfg       Config
	clock     *Clock
	sentiment *Sentiment
	orders    *OrderFlow
	rng       *rand.Rand
	tickers   map[string]*Ticker
	sequence  []string
}

// NewEngine builds an engine around loaded instruments. Instrument
// construction fails fast on invalid records rather than defaulting.
func NewEngine(cfg Config, clock Clock, instruments []*models.Instrument) (*Engine, error) {
	cfg.setDefaults()
	if len(instruments) == 0 {
		return nil, fmt.Errorf("engine: no instruments")
	}

	c := clock
	if c.Season == 0 {
		c.Season = 1
	}
	if c.DayInSeason == 0 {
		c.DayInSeason = 1
	}
	c.DaysPerSeason = cfg.DaysPerSeason
	c.MarketOpen = cfg.MarketOpen
	c.MarketClose = cfg.MarketClose

	e := &Engine{
		cfg:     cfg,
		clock:   &c,
		orders:  NewOrderFlow(),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		tickers: make(map[string]*Ticker, len(instruments)),
	}

	sectors := make(map[string]struct{})
	for _, inst := range instruments {
		t, err := NewTicker(inst)
		if err != nil {
			return nil, err
		}
		if _, dup := e.tickers[inst.Ticker]; dup {
			return nil, fmt.Errorf("engine: duplicate ticker %s", inst.Ticker)
		}
		e.tickers[inst.Ticker] = t
		e.sequence = append(e.sequence, inst.Ticker)
		sectors[inst.Sector] = struct{}{}
	}
	// Stable iteration order; determinism across runs is not required but
	// a stable order keeps per-seed runs reproducible in tests.
	sort.Strings(e.sequence)

	secList := make([]string, 0, len(sectors))
	for s := range sectors {
		secList = append(secList, s)
	}
	sort.Strings(secList)
	e.sentiment = NewSentiment(secList)

	return e, nil
}

// Tick advances the clock by one step and updates every instrument once.
func (e *Engine) Tick() TickResult {
	rolled := e.clock.Advance(e.cfg.MinutesPerTick)
	if rolled > 0 {
		for _, sym := range e.sequence {
			e.tickers[sym].ResetDailyVolume(e.rng)
		}
	}

	e.sentiment.Step(e.rng)

	res := TickResult{
		Day:        e.clock.Day,
		Time:       e.clock.MarketTime,
		MarketOpen: e.clock.IsOpen(),
		Snapshots:  make([]models.Quote, 0, len(e.sequence)),
	}

	emit := func(ticker, text string, color models.NewsColor) {
		res.News = append(res.News, models.NewsEvent{
			ID:     uuid.NewString(),
			Ticker: ticker,
			Text:   text,
			Color:  color,
			Day:    e.clock.Day,
			Time:   e.clock.MarketTime,
		})
	}

	ctx := TickContext{
		Clock:          e.clock,
		Sentiment:      e.sentiment,
		Orders:         e.orders,
		Rng:            e.rng,
		EmitNews:       emit,
		PricePrecision: e.cfg.PricePrecision,
	}

	for _, sym := range e.sequence {
		t := e.tickers[sym]
		t.Tick(ctx)
		res.Snapshots = append(res.Snapshots, models.Quote{
			Ticker: sym,
			Price:  t.Inst.CurrentPrice,
			Change: t.Inst.Change(),
			Volume: t.Inst.Volume,
			Day:    e.clock.Day,
			Time:   e.clock.MarketTime,
		})
	}

	return res
}

// RecordBuy applies the order-flow impulse for an accepted buy.
func (e *Engine) RecordBuy(ticker string, qty int) error {
	if _, ok := e.tickers[ticker]; !ok {
		return fmt.Errorf("engine: unknown ticker %s", ticker)
	}
	e.orders.RecordBuy(ticker, qty)
	return nil
}

// Instrument returns the live state for ticker, or nil when unknown. The
// returned pointer is only valid to read between ticks.
func (e *Engine) Instrument(ticker string) *models.Instrument {
	t, ok := e.tickers[ticker]
	if !ok {
		return nil
	}
	return t.Inst
}

// Instruments returns all instruments in stable ticker order.
func (e *Engine) Instruments() []*models.Instrument {
	out := make([]*models.Instrument, 0, len(e.sequence))
	for _, sym := range e.sequence {
		out = append(out, e.tickers[sym].Inst)
	}
	return out
}

// Clock returns a copy of the market clock.
func (e *Engine) Clock() Clock {
	return *e.clock
}

// Sentiment exposes the field for scenario tooling and tests.
func (e *Engine) Sentiment() *Sentiment {
	return e.sentiment
}
