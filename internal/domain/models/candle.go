package models

// Candle is one OHLCV bar. Day is the simulation day counter and Time the
// minute-of-day at which the bar opened.
type Candle struct {
	Day    int     `db:"day" json:"day"`
	Time   int     `db:"time" json:"time"`
	Open   float64 `db:"open" json:"open"`
	High   float64 `db:"high" json:"high"`
	Low    float64 `db:"low" json:"low"`
	Close  float64 `db:"close" json:"close"`
	Volume int64   `db:"volume" json:"volume"`
}

// Before reports whether c opened strictly before other in (day, time) order.
func (c Candle) Before(other Candle) bool {
	if c.Day != other.Day {
		return c.Day < other.Day
	}
	return c.Time < other.Time
}
