package models

// Quote is the per-instrument result of one simulation tick, fanned out to
// the quote cache, the bus and the live stream.
type Quote struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume int64   `json:"volume"`
	Day    int     `json:"day"`
	Time   int     `json:"time"`
}

// ClockState is the persisted slice of the market clock.
type ClockState struct {
	Day         int `db:"market_day" json:"day"`
	MarketTime  int `db:"market_time" json:"market_time"`
	Season      int `db:"season" json:"season"`
	DayInSeason int `db:"day_in_season" json:"day_in_season"`
}
