package usecase

import (
	"testing"

	"TickForge/internal/domain/models"
	domrepo "TickForge/internal/domain/repository"
)

type stubCandleSource struct {
	candles map[string][]models.Candle
}

func (s *stubCandleSource) Candles(ticker string) ([]models.Candle, bool) {
	c, ok := s.candles[ticker]
	return c, ok
}

func baseCandles(n int) []models.Candle {
	out := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Candle{
			Day:    1,
			Time:   570 + i*5,
			Open:   10 + float64(i),
			High:   11 + float64(i),
			Low:    9 + float64(i),
			Close:  10.5 + float64(i),
			Volume: 1000,
		})
	}
	return out
}

func TestGetCandlesBaseTimeframe(t *testing.T) {
	src := &stubCandleSource{candles: map[string][]models.Candle{
		"SOLR": baseCandles(12),
	}}
	uc := NewCandlesUseCase(src, 5)

	res, err := uc.GetCandles(GetCandlesParams{Ticker: "SOLR", Timeframe: domrepo.TF5m})
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if res.Count != 12 || len(res.Candles) != 12 {
		t.Fatalf("count = %d, want 12", res.Count)
	}
	if res.Timeframe != "5m" {
		t.Errorf("timeframe = %q", res.Timeframe)
	}
}

func TestGetCandlesAggregated(t *testing.T) {
	src := &stubCandleSource{candles: map[string][]models.Candle{
		"SOLR": baseCandles(12),
	}}
	uc := NewCandlesUseCase(src, 5)

	res, err := uc.GetCandles(GetCandlesParams{Ticker: "SOLR", Timeframe: domrepo.TF30m})
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("count = %d, want 2 (12x5m folds to 2x30m)", res.Count)
	}
	first := res.Candles[0]
	if first.Open != 10 || first.Close != 15.5 {
		t.Errorf("first bucket open/close = %v/%v, want 10/15.5", first.Open, first.Close)
	}
	if first.Volume != 6000 {
		t.Errorf("first bucket volume = %d, want 6000", first.Volume)
	}
}

func TestGetCandlesLimit(t *testing.T) {
	src := &stubCandleSource{candles: map[string][]models.Candle{
		"SOLR": baseCandles(20),
	}}
	uc := NewCandlesUseCase(src, 5)

	res, err := uc.GetCandles(GetCandlesParams{Ticker: "SOLR", Timeframe: domrepo.TF5m, Limit: 5})
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if res.Count != 5 {
		t.Fatalf("count = %d, want 5", res.Count)
	}
	// Limit keeps the newest bars.
	if res.Candles[4].Time != 570+19*5 {
		t.Errorf("last candle time = %d", res.Candles[4].Time)
	}
}

func TestGetCandlesErrors(t *testing.T) {
	src := &stubCandleSource{candles: map[string][]models.Candle{}}
	uc := NewCandlesUseCase(src, 5)

	if _, err := uc.GetCandles(GetCandlesParams{Timeframe: domrepo.TF5m}); err == nil {
		t.Error("empty ticker accepted")
	}
	if _, err := uc.GetCandles(GetCandlesParams{Ticker: "SOLR", Timeframe: "7m"}); err == nil {
		t.Error("bogus timeframe accepted")
	}
	if _, err := uc.GetCandles(GetCandlesParams{Ticker: "NOPE", Timeframe: domrepo.TF5m}); err == nil {
		t.Error("unknown ticker accepted")
	}
}
