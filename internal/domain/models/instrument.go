package models

import "fmt"

// VolatilityClass buckets an instrument into a sigma sampling range.
type VolatilityClass string

const (
	VolatilityLow    VolatilityClass = "low"
	VolatilityMedium VolatilityClass = "medium"
	VolatilityHigh   VolatilityClass = "high"
)

// SigmaRange returns the (min, max) range the per-tick sigma is drawn from.
func (v VolatilityClass) SigmaRange() (float64, float64) {
	switch v {
	case VolatilityLow:
		return 0.003, 0.015
	case VolatilityMedium:
		return 0.015, 0.06
	case VolatilityHigh:
		return 0.04, 0.14
	default:
		return 0, 0
	}
}

// Valid reports whether v is a known volatility class.
func (v VolatilityClass) Valid() bool {
	switch v {
	case VolatilityLow, VolatilityMedium, VolatilityHigh:
		return true
	}
	return false
}

// Instrument holds the full simulation state of one tradable ticker.
// Persisted fields round-trip through the game-state store; ring buffers and
// phase fields are runtime state rebuilt or re-seeded after load.
type Instrument struct {
	Ticker string `db:"ticker" json:"ticker"`
	Name   string `db:"name" json:"name"`
	Sector string `db:"sector" json:"sector"`

	CurrentPrice float64         `db:"current_price" json:"current_price"`
	LastPrice    float64         `db:"last_price" json:"last_price"`
	BasePrice    float64         `db:"base_price" json:"base_price"`
	Volatility   VolatilityClass `db:"volatility" json:"volatility"`
	Gravity      float64         `db:"gravity" json:"gravity"`
	Trend        float64         `db:"trend" json:"trend"`
	ATH          float64         `db:"ath" json:"ath"`
	ATL          float64         `db:"atl" json:"atl"`

	// BuyQty is the order-entry quantity owned by the external order UI.
	// It rides along in the persisted record for compatibility with the
	// legacy schema; the simulation never reads it.
	BuyQty int `db:"buy_qty" json:"buy_qty"`

	Volume    int64   `db:"volume" json:"volume"`
	AvgVolume int64   `db:"avg_volume" json:"avg_volume"`
	VolumeCap float64 `db:"volume_cap" json:"volume_cap"`

	// LastBreakoutTime is the simulated-minute timestamp of the last
	// breakout, in absolute minutes (day*1440 + minute-of-day) so the
	// cooldown survives day rollover.
	LastBreakoutTime int64 `db:"last_breakout_time" json:"-"`

	// RecentPrices is the rolling window of closes used for breakout
	// detection, bounded to the last 200 samples.
	RecentPrices []float64 `db:"-" json:"-"`

	// VolumeHistory keeps the last 700 simulated volume readings.
	VolumeHistory []int64 `db:"-" json:"-"`

	// DayHistory is the candle log, ordered by (day, time), bounded to 2000.
	DayHistory []Candle `db:"-" json:"-"`

	// IntradayBias is a per-instrument volume shaping factor, drawn once
	// from U(0.7, 1.3) the first time the market is open. Zero means unset.
	IntradayBias float64 `db:"-" json:"-"`

	// DailyVolumePhase shifts the sinusoidal intraday volume curve,
	// re-drawn from U(-0.7, 0.7) just after each midnight rollover.
	DailyVolumePhase float64 `db:"-" json:"-"`
}

const (
	// MaxRecentPrices bounds the breakout detection window ring.
	MaxRecentPrices = 200
	// MaxVolumeHistory bounds the per-tick volume log ring.
	MaxVolumeHistory = 700
	// MaxDayHistory bounds the candle log; oldest candles are evicted first.
	MaxDayHistory = 2000
)

// Validate checks the load-time invariants. A zero avg_volume or an unknown
// volatility class would silently corrupt the volume and volatility models,
// so loading fails fast instead of defaulting.
func (i *Instrument) Validate() error {
	if i.Ticker == "" {
		return fmt.Errorf("instrument: empty ticker")
	}
	if i.AvgVolume <= 0 {
		return fmt.Errorf("instrument %s: avg_volume must be > 0, got %d", i.Ticker, i.AvgVolume)
	}
	if !i.Volatility.Valid() {
		return fmt.Errorf("instrument %s: unknown volatility class %q", i.Ticker, i.Volatility)
	}
	if i.CurrentPrice <= 0 {
		return fmt.Errorf("instrument %s: current_price must be > 0, got %v", i.Ticker, i.CurrentPrice)
	}
	return nil
}

// Normalize fills derived defaults on a freshly loaded record: the adaptive
// volume cap starts at 12x average when the stored value is unusable, and the
// breakout timestamp starts far in the past so the first breakout is
// unconstrained.
func (i *Instrument) Normalize() {
	if i.VolumeCap <= 0 {
		i.VolumeCap = float64(i.AvgVolume) * 12
	}
	if i.LastBreakoutTime == 0 {
		i.LastBreakoutTime = -1 << 30
	}
}

// Change returns the price move of the last tick.
func (i *Instrument) Change() float64 {
	return i.CurrentPrice - i.LastPrice
}
