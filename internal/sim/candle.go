package sim

import "TickForge/internal/domain/models"

// BucketKey identifies the (day, minute-of-day) bucket a live bar belongs to.
type BucketKey struct {
	Day  int
	Time int
}

// CandleBuilder is a small state machine that folds intra-tick micro-price
// samples into the active OHLCV bar. It either has no bar, or is building the
// bar for exactly one bucket key; folding with a new key opens a fresh bar.
type CandleBuilder struct {
	active bool
	key    BucketKey
	bar    models.Candle
}

// Seed syncs the builder with the most recent persisted candle so that ticks
// landing in the same bucket after a load keep extending it.
func (b *CandleBuilder) Seed(last models.Candle) {
	b.active = true
	b.key = BucketKey{Day: last.Day, Time: last.Time}
	b.bar = last
}

// Fold merges the tick's price samples into the bar for key. samples must be
// non-empty and ordered; the last sample becomes the close. volume replaces
// the bar's volume outright: it is a point-in-time gauge in this model, not a
// per-trade sum. Fold returns the updated bar and reports whether a new bar
// was opened (append to history) versus the current one extended (update the
// last entry in place).
func (b *CandleBuilder) Fold(key BucketKey, samples []float64, volume int64) (models.Candle, bool) {
	if !b.active || b.key != key {
		bar := models.Candle{
			Day:    key.Day,
			Time:   key.Time,
			Open:   samples[0],
			High:   samples[0],
			Low:    samples[0],
			Close:  samples[len(samples)-1],
			Volume: volume,
		}
		for _, p := range samples {
			if p > bar.High {
				bar.High = p
			}
			if p < bar.Low {
				bar.Low = p
			}
		}
		b.active = true
		b.key = key
		b.bar = bar
		return bar, true
	}

	b.bar.Close = samples[len(samples)-1]
	for _, p := range samples {
		if p > b.bar.High {
			b.bar.High = p
		}
		if p < b.bar.Low {
			b.bar.Low = p
		}
	}
	b.bar.Volume = volume
	return b.bar, false
}

// Aggregate compresses base-resolution candles into a larger timeframe, e.g.
// 5m bars into 30m bars. Consecutive input candles are grouped in runs of
// target/base; each full run yields one bar with the first open, the last
// close, the extreme high/low and the summed volume. A partial trailing run
// is dropped, not emitted. The transform is pure and never mutates its input.
func Aggregate(candles []models.Candle, baseMinutes, targetMinutes int) []models.Candle {
	if baseMinutes <= 0 || targetMinutes <= 0 {
		return nil
	}
	perBucket := targetMinutes / baseMinutes
	if perBucket <= 1 {
		out := make([]models.Candle, len(candles))
		copy(out, candles)
		return out
	}

	out := make([]models.Candle, 0, len(candles)/perBucket)
	for start := 0; start+perBucket <= len(candles); start += perBucket {
		run := candles[start : start+perBucket]
		bar := models.Candle{
			Day:    run[0].Day,
			Time:   run[0].Time,
			Open:   run[0].Open,
			High:   run[0].High,
			Low:    run[0].Low,
			Close:  run[len(run)-1].Close,
			Volume: 0,
		}
		for _, c := range run {
			if c.High > bar.High {
				bar.High = c.High
			}
			if c.Low < bar.Low {
				bar.Low = c.Low
			}
			bar.Volume += c.Volume
		}
		out = append(out, bar)
	}
	return out
}
