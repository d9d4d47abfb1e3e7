package repository

// Timeframe is a chart candle resolution. The simulation emits bars at the
// base resolution; larger timeframes are derived views.
type Timeframe string

const (
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Minutes returns the bucket width of tf, 0 for unknown values.
func (tf Timeframe) Minutes() int {
	switch tf {
	case TF5m:
		return 5
	case TF15m:
		return 15
	case TF30m:
		return 30
	case TF1h:
		return 60
	case TF4h:
		return 240
	case TF1d:
		return 1440
	default:
		return 0
	}
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	return tf.Minutes() != 0
}

// DefaultTimeframe returns the default chart timeframe.
func DefaultTimeframe() Timeframe { return TF5m }

// NormalizeTimeframe converts a raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}
