package usecase

import (
	"fmt"

	"TickForge/internal/domain/models"
	domrepo "TickForge/internal/domain/repository"
	"TickForge/internal/sim"
)

// CandleSource provides the base-resolution candle log per ticker.
type CandleSource interface {
	Candles(ticker string) ([]models.Candle, bool)
}

// CandlesUseCase provides business logic for retrieving chart candles.
type CandlesUseCase struct {
	source      CandleSource
	baseMinutes int
}

func NewCandlesUseCase(source CandleSource, baseMinutes int) *CandlesUseCase {
	return &CandlesUseCase{source: source, baseMinutes: baseMinutes}
}

type GetCandlesParams struct {
	Ticker    string
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetCandlesResult struct {
	Ticker    string          `json:"ticker"`
	Timeframe string          `json:"timeframe"`
	Count     int             `json:"count"`
	Candles   []models.Candle `json:"candles"`
}

// GetCandles returns the candle log folded to the requested timeframe.
// Larger timeframes are derived from the base log on the fly; a trailing
// partial bucket is dropped so charts only show completed bars.
func (uc *CandlesUseCase) GetCandles(p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if !domrepo.IsValidTimeframe(p.Timeframe) {
		return nil, fmt.Errorf("unsupported timeframe: %s", p.Timeframe)
	}
	if p.Limit <= 0 {
		p.Limit = models.MaxDayHistory
	}
	if p.Limit > models.MaxDayHistory {
		p.Limit = models.MaxDayHistory
	}

	base, ok := uc.source.Candles(p.Ticker)
	if !ok {
		return nil, fmt.Errorf("unknown ticker: %s", p.Ticker)
	}

	candles := sim.Aggregate(base, uc.baseMinutes, p.Timeframe.Minutes())
	if len(candles) > p.Limit {
		candles = candles[len(candles)-p.Limit:]
	}

	return &GetCandlesResult{
		Ticker:    p.Ticker,
		Timeframe: string(p.Timeframe),
		Count:     len(candles),
		Candles:   candles,
	}, nil
}
