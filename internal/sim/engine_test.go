package sim

import (
	"testing"

	"TickForge/internal/domain/models"
)

func testUniverse() []*models.Instrument {
	mk := func(ticker, sector string, price float64, vol models.VolatilityClass, avgVolume int64) *models.Instrument {
		return &models.Instrument{
			Ticker:       ticker,
			Name:         ticker + " Corp",
			Sector:       sector,
			CurrentPrice: price,
			LastPrice:    price,
			BasePrice:    price,
			Volatility:   vol,
			Gravity:      0.0003,
			ATH:          price,
			ATL:          price,
			Volume:       avgVolume,
			AvgVolume:    avgVolume,
		}
	}
	return []*models.Instrument{
		mk("AQUA", "Utilities", 27.44, models.VolatilityLow, 10000),
		mk("NEOT", "Technology", 132.40, models.VolatilityHigh, 55000),
		mk("SOLR", "Energy", 41.61, models.VolatilityMedium, 20000),
	}
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Seed: seed}, Clock{Day: 1}, testUniverse())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestEngineRejectsEmptyUniverse(t *testing.T) {
	if _, err := NewEngine(Config{}, Clock{}, nil); err == nil {
		t.Fatalf("expected error for empty universe")
	}
}

func TestEngineRejectsDuplicateTickers(t *testing.T) {
	u := testUniverse()
	u = append(u, u[0])
	if _, err := NewEngine(Config{}, Clock{}, u); err == nil {
		t.Fatalf("expected error for duplicate ticker")
	}
}

func TestEngineTickAdvancesClockAndSnapshotsAll(t *testing.T) {
	e := newTestEngine(t, 1)

	res := e.Tick()
	if res.Time != 5 {
		t.Fatalf("expected clock at minute 5, got %d", res.Time)
	}
	if len(res.Snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(res.Snapshots))
	}
	for _, s := range res.Snapshots {
		if s.Price < 0.01 {
			t.Fatalf("snapshot price below floor: %+v", s)
		}
	}
}

func TestEngineSameSeedSamePath(t *testing.T) {
	a := newTestEngine(t, 99)
	b := newTestEngine(t, 99)

	for i := 0; i < 200; i++ {
		ra := a.Tick()
		rb := b.Tick()
		for j := range ra.Snapshots {
			if ra.Snapshots[j] != rb.Snapshots[j] {
				t.Fatalf("tick %d diverged: %+v vs %+v", i, ra.Snapshots[j], rb.Snapshots[j])
			}
		}
	}
}

func TestEngineRecordBuyUnknownTicker(t *testing.T) {
	e := newTestEngine(t, 1)
	if err := e.RecordBuy("NOPE", 10); err == nil {
		t.Fatalf("expected error for unknown ticker")
	}
	if err := e.RecordBuy("SOLR", 10); err != nil {
		t.Fatalf("record buy: %v", err)
	}
}

func TestEngineBuyPressureMovesThinStockMore(t *testing.T) {
	// Two universes with the same seed; one gets heavy buy flow into the
	// thin AQUA book. Its decayed impulse must be strictly positive while
	// the control run sees none.
	a := newTestEngine(t, 7)
	if err := a.RecordBuy("AQUA", 1_000_000); err != nil {
		t.Fatalf("record buy: %v", err)
	}
	force := a.orders.DecayAndRead("AQUA", 10000)
	if force <= 0 {
		t.Fatalf("expected positive impulse, got %v", force)
	}
}

func TestEngineBreakoutCooldownPerInstrument(t *testing.T) {
	e := newTestEngine(t, 5)

	lastSeen := make(map[string]int64)
	for i := 0; i < 5000; i++ {
		res := e.Tick()
		abs := int64(res.Day)*1440 + int64(res.Time)
		for _, ev := range res.News {
			if prev, ok := lastSeen[ev.Ticker]; ok {
				if abs-prev < 120 {
					t.Fatalf("breakouts %d minutes apart for %s", abs-prev, ev.Ticker)
				}
			}
			lastSeen[ev.Ticker] = abs
		}
	}
}

func TestEngineDayRolloverResetsVolume(t *testing.T) {
	e, err := NewEngine(Config{Seed: 3}, Clock{Day: 1, MarketTime: 1435}, testUniverse())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	res := e.Tick()
	if res.Day != 2 || res.Time != 0 {
		t.Fatalf("expected rollover to day 2 minute 0, got day=%d time=%d", res.Day, res.Time)
	}
}

func TestEngineInstrumentsStableOrder(t *testing.T) {
	e := newTestEngine(t, 1)

	insts := e.Instruments()
	want := []string{"AQUA", "NEOT", "SOLR"}
	for i, inst := range insts {
		if inst.Ticker != want[i] {
			t.Fatalf("unexpected order: got %s at %d", inst.Ticker, i)
		}
	}
	if e.Instrument("NEOT") == nil {
		t.Fatalf("expected NEOT lookup to succeed")
	}
	if e.Instrument("NOPE") != nil {
		t.Fatalf("expected nil for unknown ticker")
	}
}
