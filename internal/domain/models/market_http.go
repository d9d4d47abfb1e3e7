package models

// CandlesRequest is the query contract for GET /api/candles.
type CandlesRequest struct {
	Ticker    string `query:"ticker" validate:"required"`
	Timeframe string `query:"timeframe"`
	Limit     int    `query:"limit" validate:"gte=0,lte=2000"`
}

// NewsRequest is the query contract for GET /api/news.
type NewsRequest struct {
	Limit int `query:"limit" validate:"gte=0,lte=200"`
}

// InstrumentSummary is the list-view projection of an instrument.
type InstrumentSummary struct {
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	Sector       string          `json:"sector"`
	Price        float64         `json:"price"`
	Change       float64         `json:"change"`
	Volatility   VolatilityClass `json:"volatility"`
	Volume       int64           `json:"volume"`
	AvgVolume    int64           `json:"avg_volume"`
	ATH          float64         `json:"ath"`
	ATL          float64         `json:"atl"`
}

// SummaryOf projects an instrument into its list view.
func SummaryOf(i *Instrument) InstrumentSummary {
	return InstrumentSummary{
		Ticker:     i.Ticker,
		Name:       i.Name,
		Sector:     i.Sector,
		Price:      i.CurrentPrice,
		Change:     i.Change(),
		Volatility: i.Volatility,
		Volume:     i.Volume,
		AvgVolume:  i.AvgVolume,
		ATH:        i.ATH,
		ATL:        i.ATL,
	}
}
