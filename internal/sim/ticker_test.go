package sim

import (
	"math/rand"
	"testing"

	"TickForge/internal/domain/models"
)

func testInstrument() *models.Instrument {
	return &models.Instrument{
		Ticker:       "SOLR",
		Name:         "Solara Energy Corp",
		Sector:       "Energy",
		CurrentPrice: 41.61,
		LastPrice:    41.61,
		BasePrice:    40.0,
		Volatility:   models.VolatilityMedium,
		Gravity:      0.0003,
		ATH:          41.61,
		ATL:          41.61,
		Volume:       22000,
		AvgVolume:    20000,
	}
}

type stubSentiment struct {
	sector float64
	mood   float64
}

func (s stubSentiment) SectorValue(string) float64 { return s.sector }
func (s stubSentiment) Mood() float64              { return s.mood }

func testContext(clock *Clock, rng *rand.Rand, news *[]models.NewsEvent) TickContext {
	return TickContext{
		Clock:     clock,
		Sentiment: stubSentiment{},
		Orders:    NewOrderFlow(),
		Rng:       rng,
		EmitNews: func(ticker, text string, color models.NewsColor) {
			if news != nil {
				*news = append(*news, models.NewsEvent{Ticker: ticker, Text: text, Color: color, Day: clock.Day, Time: clock.MarketTime})
			}
		},
		PricePrecision: 2,
	}
}

func TestNewTickerRejectsInvalidRecords(t *testing.T) {
	inst := testInstrument()
	inst.AvgVolume = 0
	if _, err := NewTicker(inst); err == nil {
		t.Fatalf("expected error for zero avg_volume")
	}

	inst = testInstrument()
	inst.Volatility = "extreme"
	if _, err := NewTicker(inst); err == nil {
		t.Fatalf("expected error for unknown volatility class")
	}
}

func TestTickerFirstCandleBucket(t *testing.T) {
	inst := testInstrument()
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 100, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(7))

	tk.Tick(testContext(clock, rng, nil))

	if len(inst.DayHistory) != 1 {
		t.Fatalf("expected exactly one candle, got %d", len(inst.DayHistory))
	}
	c := inst.DayHistory[0]
	if c.Day != 1 || c.Time != 100 {
		t.Fatalf("unexpected candle bucket: %+v", c)
	}
	if c.Low > c.High {
		t.Fatalf("low above high: %+v", c)
	}
	if c.Open < c.Low || c.Open > c.High || c.Close < c.Low || c.Close > c.High {
		t.Fatalf("open/close outside [low, high]: %+v", c)
	}
}

func TestTickerInvariantsOverLongRun(t *testing.T) {
	inst := testInstrument()
	inst.Volatility = models.VolatilityHigh
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(42))
	ctx := testContext(clock, rng, nil)

	avg := float64(inst.AvgVolume)
	for i := 0; i < 3000; i++ {
		clock.Advance(5)
		tk.Tick(ctx)

		if inst.CurrentPrice < 0.01 {
			t.Fatalf("tick %d: price below floor: %v", i, inst.CurrentPrice)
		}
		if inst.Volume < 150 {
			t.Fatalf("tick %d: volume below floor: %d", i, inst.Volume)
		}
		if inst.VolumeCap < avg*5 || inst.VolumeCap > avg*40 {
			t.Fatalf("tick %d: volume cap out of bounds: %v", i, inst.VolumeCap)
		}
		if len(inst.RecentPrices) > models.MaxRecentPrices {
			t.Fatalf("tick %d: recent prices ring overflow: %d", i, len(inst.RecentPrices))
		}
		if len(inst.VolumeHistory) > models.MaxVolumeHistory {
			t.Fatalf("tick %d: volume history ring overflow: %d", i, len(inst.VolumeHistory))
		}
		if len(inst.DayHistory) > models.MaxDayHistory {
			t.Fatalf("tick %d: candle log overflow: %d", i, len(inst.DayHistory))
		}
	}

	for i := 1; i < len(inst.DayHistory); i++ {
		prev, cur := inst.DayHistory[i-1], inst.DayHistory[i]
		if cur.Before(prev) {
			t.Fatalf("candles out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
	if inst.ATH < inst.ATL {
		t.Fatalf("ath below atl: ath=%v atl=%v", inst.ATH, inst.ATL)
	}
}

func TestTickerBullishBreakout(t *testing.T) {
	inst := testInstrument()
	for i := 0; i < 30; i++ {
		inst.RecentPrices = append(inst.RecentPrices, 10.0)
	}
	inst.CurrentPrice = 10.3 // above 10.0 * 1.01
	inst.LastPrice = 10.3
	inst.BasePrice = 10.0
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 600, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(1))
	var news []models.NewsEvent

	trendBefore := inst.Trend
	tk.Tick(testContext(clock, rng, &news))

	if len(news) != 1 {
		t.Fatalf("expected one news event, got %d", len(news))
	}
	if news[0].Color != models.NewsColorGreen {
		t.Fatalf("expected bullish color, got %s", news[0].Color)
	}
	if news[0].Text != "SOLR breaks resistance! Bullish breakout!" {
		t.Fatalf("unexpected headline: %q", news[0].Text)
	}
	if inst.Trend <= trendBefore {
		t.Fatalf("breakout must kick the trend up: before=%v after=%v", trendBefore, inst.Trend)
	}
}

func TestTickerBearishBreakdown(t *testing.T) {
	inst := testInstrument()
	for i := 0; i < 30; i++ {
		inst.RecentPrices = append(inst.RecentPrices, 10.0)
	}
	inst.CurrentPrice = 9.5 // below 10.0 * 0.99
	inst.LastPrice = 9.5
	inst.BasePrice = 10.0
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 600, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(1))
	var news []models.NewsEvent

	tk.Tick(testContext(clock, rng, &news))

	if len(news) != 1 {
		t.Fatalf("expected one news event, got %d", len(news))
	}
	if news[0].Color != models.NewsColorRed {
		t.Fatalf("expected bearish color, got %s", news[0].Color)
	}
}

func TestTickerBreakoutCooldown(t *testing.T) {
	inst := testInstrument()
	for i := 0; i < 30; i++ {
		inst.RecentPrices = append(inst.RecentPrices, 10.0)
	}
	inst.CurrentPrice = 10.3
	inst.LastPrice = 10.3
	inst.BasePrice = 10.0
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 600, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(1))
	var news []models.NewsEvent
	ctx := testContext(clock, rng, &news)

	tk.Tick(ctx)
	if len(news) != 1 {
		t.Fatalf("expected first breakout to fire, got %d events", len(news))
	}

	// Repeatedly re-arm the same breakout condition inside the cooldown.
	for i := 0; i < 10; i++ {
		clock.Advance(5)
		inst.CurrentPrice = 10.3
		inst.RecentPrices = inst.RecentPrices[:0]
		for j := 0; j < 30; j++ {
			inst.RecentPrices = append(inst.RecentPrices, 10.0)
		}
		tk.Tick(ctx)
	}
	if len(news) != 1 {
		t.Fatalf("breakout fired inside the cooldown: %d events", len(news))
	}
}

func TestTickerNoBreakoutWithShortWindow(t *testing.T) {
	inst := testInstrument()
	for i := 0; i < 10; i++ { // below the 20-sample minimum
		inst.RecentPrices = append(inst.RecentPrices, 10.0)
	}
	inst.CurrentPrice = 10.3
	inst.LastPrice = 10.3
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 600, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(1))
	var news []models.NewsEvent

	tk.Tick(testContext(clock, rng, &news))
	if len(news) != 0 {
		t.Fatalf("breakout must not fire with fewer than 20 samples")
	}
}

func TestTickerPriceRounding(t *testing.T) {
	inst := testInstrument()
	tk, err := NewTicker(inst)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	clock := &Clock{MarketTime: 600, Day: 1, Season: 1, DayInSeason: 1, DaysPerSeason: 10, MarketOpen: 570, MarketClose: 960}
	rng := rand.New(rand.NewSource(3))
	ctx := testContext(clock, rng, nil)

	for i := 0; i < 50; i++ {
		clock.Advance(5)
		tk.Tick(ctx)
		cents := inst.CurrentPrice * 100
		if diff := cents - float64(int64(cents+0.5)); diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("price not rounded to cents: %v", inst.CurrentPrice)
		}
	}
}
