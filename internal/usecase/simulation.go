package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TickForge/internal/domain/models"
	domrepo "TickForge/internal/domain/repository"
	"TickForge/internal/sim"
	applogger "TickForge/pkg/logger"
	"TickForge/pkg/util"
)

// TickBroadcaster pushes live tick and news frames to connected clients.
type TickBroadcaster interface {
	BroadcastTicks(quotes []models.Quote)
	BroadcastNews(events []models.NewsEvent)
}

// SimulationConfig tunes the runner around the engine.
type SimulationConfig struct {
	Engine           sim.Config
	TickInterval     time.Duration
	AutosaveInterval time.Duration
	NewsBuffer       int
}

func (c *SimulationConfig) setDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = 2 * time.Second
	}
	if c.AutosaveInterval <= 0 {
		c.AutosaveInterval = 60 * time.Second
	}
	if c.NewsBuffer <= 0 {
		c.NewsBuffer = 200
	}
	// seed 0 means "pick one": a fixed fallback would replay the same
	// price path on every deployment that never set SIM_SEED
	if c.Engine.Seed == 0 {
		c.Engine.Seed = time.Now().UnixNano()
	}
}

// SimulationUseCase owns the engine and drives it on a wall-clock ticker,
// fanning every tick out to the quote cache, the bus, the analytics log and
// the live stream. The engine itself is single-threaded; all access goes
// through the runner's mutex.
type SimulationUseCase struct {
	cfg     SimulationConfig
	store   domrepo.GameStore
	tickLog domrepo.TickLog      // optional
	bus     domrepo.BusPublisher // optional
	quotes  domrepo.QuoteCache
	stream  TickBroadcaster // optional
	metrics domrepo.Metrics
	l       *applogger.Logger

	mu     sync.Mutex
	engine *sim.Engine
	news   []models.NewsEvent
	paused bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSimulationUseCase bootstraps the game state and builds the runner.
// An empty store is seeded with the default universe first.
func NewSimulationUseCase(
	ctx context.Context,
	cfg SimulationConfig,
	store domrepo.GameStore,
	tickLog domrepo.TickLog,
	bus domrepo.BusPublisher,
	quotes domrepo.QuoteCache,
	stream TickBroadcaster,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) (*SimulationUseCase, error) {
	cfg.setDefaults()

	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("simulation: init store: %w", err)
	}

	n, err := store.CountInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulation: count instruments: %w", err)
	}
	if n == 0 {
		if err := store.SeedUniverse(ctx, models.DefaultUniverse()); err != nil {
			return nil, fmt.Errorf("simulation: seed universe: %w", err)
		}
		l.Info("seeded default instrument universe")
	}

	instruments, err := store.LoadInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulation: load instruments: %w", err)
	}

	clockState, found, err := store.LoadClock(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulation: load clock: %w", err)
	}
	clock := sim.Clock{
		MarketTime:  cfg.Engine.MarketOpen,
		Day:         1,
		Season:      1,
		DayInSeason: 1,
	}
	if found {
		clock.MarketTime = clockState.MarketTime
		clock.Day = clockState.Day
		clock.Season = clockState.Season
		clock.DayInSeason = clockState.DayInSeason
	}

	engine, err := sim.NewEngine(cfg.Engine, clock, instruments)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	l.Info("simulation ready",
		applogger.Int("instruments", len(instruments)),
		applogger.Int("day", clock.Day),
		applogger.String("market_time", util.FormatMarketTime(clock.MarketTime)),
		applogger.Bool("resumed", found),
	)

	return &SimulationUseCase{
		cfg:     cfg,
		store:   store,
		tickLog: tickLog,
		bus:     bus,
		quotes:  quotes,
		stream:  stream,
		metrics: metrics,
		l:       l,
		engine:  engine,
	}, nil
}

// Start launches the tick and autosave loops.
func (s *SimulationUseCase) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.tickLoop(runCtx)
	go s.autosaveLoop(runCtx)
}

// Stop halts the loops and persists a final snapshot.
func (s *SimulationUseCase) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return s.save(ctx)
}

func (s *SimulationUseCase) tickLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *SimulationUseCase) runTick(ctx context.Context) {
	start := time.Now()

	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return
	}
	res := s.engine.Tick()
	s.news = append(s.news, res.News...)
	if over := len(s.news) - s.cfg.NewsBuffer; over > 0 {
		s.news = s.news[over:]
	}
	instruments := len(s.engine.Instruments())
	s.mu.Unlock()

	s.metrics.RecordTick(time.Since(start).Seconds(), instruments)
	for _, q := range res.Snapshots {
		s.metrics.RecordLastPrice(q.Ticker, q.Price)
	}
	for _, ev := range res.News {
		s.metrics.RecordBreakout(ev.Ticker)
	}

	if err := s.quotes.SetQuotes(ctx, res.Snapshots); err != nil {
		s.metrics.RecordError("quote_cache")
		s.l.Error("quote cache update failed", applogger.Error(err))
	}

	if s.bus != nil {
		if err := s.bus.PublishTicks(ctx, res.Snapshots); err != nil {
			s.metrics.RecordError("bus_ticks")
			s.l.Error("tick publish failed", applogger.Error(err))
		}
		if len(res.News) > 0 {
			if err := s.bus.PublishNews(ctx, res.News); err != nil {
				s.metrics.RecordError("bus_news")
				s.l.Error("news publish failed", applogger.Error(err))
			} else {
				s.metrics.RecordNewsPublished(len(res.News))
			}
		}
	}

	if s.tickLog != nil {
		if err := s.tickLog.AppendTicks(ctx, start, res.Snapshots); err != nil {
			s.metrics.RecordError("tick_log")
			s.l.Error("tick log append failed", applogger.Error(err))
		}
	}

	if s.stream != nil {
		s.stream.BroadcastTicks(res.Snapshots)
		if len(res.News) > 0 {
			s.stream.BroadcastNews(res.News)
		}
	}
}

func (s *SimulationUseCase) autosaveLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.AutosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.save(ctx); err != nil {
				s.l.Error("autosave failed", applogger.Error(err))
			}
		}
	}
}

// save snapshots the full game state under the lock, then writes it outside
// the lock so a slow database never stalls the tick loop.
func (s *SimulationUseCase) save(ctx context.Context) error {
	start := time.Now()

	s.mu.Lock()
	clock := s.engine.Clock()
	live := s.engine.Instruments()
	snapshot := make([]*models.Instrument, len(live))
	for i, inst := range live {
		snapshot[i] = copyInstrument(inst)
	}
	s.mu.Unlock()

	state := models.ClockState{
		Day:         clock.Day,
		MarketTime:  clock.MarketTime,
		Season:      clock.Season,
		DayInSeason: clock.DayInSeason,
	}
	if err := s.store.SaveState(ctx, state, snapshot); err != nil {
		s.metrics.RecordError("save")
		return fmt.Errorf("simulation: save: %w", err)
	}
	s.metrics.RecordSave(time.Since(start).Seconds())
	return nil
}

func copyInstrument(inst *models.Instrument) *models.Instrument {
	cp := *inst
	cp.RecentPrices = append([]float64(nil), inst.RecentPrices...)
	cp.VolumeHistory = append([]int64(nil), inst.VolumeHistory...)
	cp.DayHistory = append([]models.Candle(nil), inst.DayHistory...)
	return &cp
}

// Pause freezes the clock; ticks become no-ops until Resume.
func (s *SimulationUseCase) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume restarts a paused simulation.
func (s *SimulationUseCase) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// Paused reports whether the simulation is currently paused.
func (s *SimulationUseCase) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Instruments returns a snapshot of every instrument in ticker order. Ring
// buffers are detached copies so callers never race the tick loop.
func (s *SimulationUseCase) Instruments() []models.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.engine.Instruments()
	out := make([]models.Instrument, len(live))
	for i, inst := range live {
		out[i] = *copyInstrument(inst)
	}
	return out
}

// Instrument returns a snapshot of one instrument.
func (s *SimulationUseCase) Instrument(ticker string) (models.Instrument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst := s.engine.Instrument(ticker)
	if inst == nil {
		return models.Instrument{}, false
	}
	return *copyInstrument(inst), true
}

// Candles returns a detached copy of one instrument's candle log.
func (s *SimulationUseCase) Candles(ticker string) ([]models.Candle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst := s.engine.Instrument(ticker)
	if inst == nil {
		return nil, false
	}
	return append([]models.Candle(nil), inst.DayHistory...), true
}

// Quote returns the latest tick snapshot for one ticker.
func (s *SimulationUseCase) Quote(ticker string) (models.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst := s.engine.Instrument(ticker)
	if inst == nil {
		return models.Quote{}, false
	}
	clock := s.engine.Clock()
	return models.Quote{
		Ticker: inst.Ticker,
		Price:  inst.CurrentPrice,
		Change: inst.Change(),
		Volume: inst.Volume,
		Day:    clock.Day,
		Time:   clock.MarketTime,
	}, true
}

// MarketOpen reports whether the market is trading at the current minute.
func (s *SimulationUseCase) MarketOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	clock := s.engine.Clock()
	return clock.IsOpen()
}

// RecordBuy applies the order-flow impulse for an accepted buy order.
func (s *SimulationUseCase) RecordBuy(ticker string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RecordBuy(ticker, qty)
}

// News returns up to limit most recent news events, newest last.
func (s *SimulationUseCase) News(limit int) []models.NewsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.news) {
		limit = len(s.news)
	}
	out := make([]models.NewsEvent, limit)
	copy(out, s.news[len(s.news)-limit:])
	return out
}

// ClockInfo is the API view of the market clock.
type ClockInfo struct {
	Day         int    `json:"day"`
	MarketTime  int    `json:"market_time"`
	Label       string `json:"label"`
	Season      int    `json:"season"`
	DayInSeason int    `json:"day_in_season"`
	MarketOpen  bool   `json:"market_open"`
	Paused      bool   `json:"paused"`
}

// ClockState returns the current market clock view.
func (s *SimulationUseCase) ClockState() ClockInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	clock := s.engine.Clock()
	return ClockInfo{
		Day:         clock.Day,
		MarketTime:  clock.MarketTime,
		Label:       util.FormatMarketTime(clock.MarketTime),
		Season:      clock.Season,
		DayInSeason: clock.DayInSeason,
		MarketOpen:  clock.IsOpen(),
		Paused:      s.paused,
	}
}
