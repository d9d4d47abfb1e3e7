package sim

import (
	"fmt"
	"math"
	"math/rand"

	"TickForge/internal/domain/models"
)

// breakoutCooldown is the minimum spacing between breakouts of the same
// instrument, in simulated minutes.
const breakoutCooldown = 120

// SentimentReader is the read-only view of the sentiment field an instrument
// tick consumes.
type SentimentReader interface {
	SectorValue(sector string) float64
	Mood() float64
}

// OrderFlowReader supplies the decayed buy-pressure impulse for one tick.
type OrderFlowReader interface {
	DecayAndRead(ticker string, avgVolume int64) float64
}

// NewsFunc receives headlines the tick emits. The color is a presentation
// hint only.
type NewsFunc func(ticker, text string, color models.NewsColor)

// TickContext carries the collaborators one instrument tick needs. The
// instrument never holds a back-reference to the engine; everything it reads
// or mutates outside its own state comes in here.
type TickContext struct {
	Clock     *Clock
	Sentiment SentimentReader
	Orders    OrderFlowReader
	Rng       *rand.Rand
	EmitNews  NewsFunc

	// PricePrecision is the number of decimal places prices are rounded
	// to; 2 for the default currency convention.
	PricePrecision int
}

// Ticker pairs an instrument's state with its live candle builder and runs
// the per-tick price, volume and candle update.
type Ticker struct {
	Inst    *models.Instrument
	builder CandleBuilder
}

// NewTicker validates and wraps a loaded instrument. The candle builder is
// seeded from the last persisted bar so same-bucket ticks keep extending it.
func NewTicker(inst *models.Instrument) (*Ticker, error) {
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("new ticker: %w", err)
	}
	inst.Normalize()
	t := &Ticker{Inst: inst}
	if n := len(inst.DayHistory); n > 0 {
		t.builder.Seed(inst.DayHistory[n-1])
	}
	return t, nil
}

// Tick advances the instrument by one simulation step. All price forces are
// summed linearly; only the trend is updated before being read.
func (t *Ticker) Tick(ctx TickContext) {
	inst := t.Inst
	rng := ctx.Rng
	clock := ctx.Clock
	open := clock.IsOpen()
	profile := ProfileFor(clock.Season)

	currentPrice := inst.CurrentPrice
	previousPrice := inst.LastPrice
	inst.LastPrice = currentPrice

	// Momentum: EWMA of per-tick price deltas.
	priceDiff := currentPrice - previousPrice
	inst.Trend = inst.Trend*0.9 + priceDiff*0.1
	momentumForce := inst.Trend * 0.01

	// Mean reversion toward the slow anchor.
	fairValueForce := (inst.BasePrice - currentPrice) * (inst.Gravity * 1.3)

	// Volatility regime: class range scaled by relative volume and season.
	sigmaMin, sigmaMax := inst.Volatility.SigmaRange()
	sigmaRaw := uniform(rng, sigmaMin, sigmaMax)
	volMult := clampF(float64(inst.Volume)/float64(inst.AvgVolume), 0.75, 3.0)
	sigma := sigmaRaw * volMult * profile.VolatilityMult

	orderForce := ctx.Orders.DecayAndRead(inst.Ticker, inst.AvgVolume)
	sectorForce := ctx.Sentiment.SectorValue(inst.Sector) * 0.003

	noiseSigma := 0.0004
	if open {
		noiseSigma = 0.003
	}
	noiseForce := rng.NormFloat64() * noiseSigma
	moodForce := ctx.Sentiment.Mood()

	change := fairValueForce +
		momentumForce +
		rng.NormFloat64()*sigma +
		orderForce +
		sectorForce +
		noiseForce +
		moodForce +
		profile.TrendBias

	newPrice := math.Max(0.01, currentPrice+change)
	newPrice = roundTo(newPrice, ctx.PricePrecision)
	inst.CurrentPrice = newPrice

	// Breakout detection against the window as it stood before this tick.
	// The sigma boost widens only the candle micro-sampling below; the
	// price change above is already final.
	lastClose := currentPrice
	now := clock.AbsoluteMinutes()
	if now-inst.LastBreakoutTime >= breakoutCooldown && len(inst.RecentPrices) >= 20 {
		window := inst.RecentPrices
		if len(window) > 30 {
			window = window[len(window)-30:]
		}
		recentHigh, recentLow := window[0], window[0]
		for _, p := range window[1:] {
			if p > recentHigh {
				recentHigh = p
			}
			if p < recentLow {
				recentLow = p
			}
		}

		switch {
		case lastClose > recentHigh*1.01:
			inst.LastBreakoutTime = now
			inst.Trend += lastClose * 0.002
			sigma *= 1.5
			ctx.EmitNews(inst.Ticker, fmt.Sprintf("%s breaks resistance! Bullish breakout!", inst.Ticker), models.NewsColorGreen)
		case lastClose < recentLow*0.99:
			inst.LastBreakoutTime = now
			inst.Trend -= lastClose * 0.002
			sigma *= 1.6
			ctx.EmitNews(inst.Ticker, fmt.Sprintf("%s breaks support! Bearish breakdown!", inst.Ticker), models.NewsColorRed)
		}
	}

	inst.RecentPrices = append(inst.RecentPrices, lastClose)
	if len(inst.RecentPrices) > models.MaxRecentPrices {
		inst.RecentPrices = inst.RecentPrices[len(inst.RecentPrices)-models.MaxRecentPrices:]
	}

	t.simulateVolume(ctx, open, profile)
	t.buildCandle(ctx, lastClose, newPrice, sigma)

	// Extend all-time extremes from the bar that just closed or grew.
	if n := len(inst.DayHistory); n > 0 {
		bar := inst.DayHistory[n-1]
		if bar.High > inst.ATH {
			inst.ATH = bar.High
		}
		if inst.ATL <= 0 || bar.Low < inst.ATL {
			inst.ATL = bar.Low
		}
	}
}

func (t *Ticker) simulateVolume(ctx TickContext, open bool, profile SeasonProfile) {
	inst := t.Inst
	rng := ctx.Rng
	clock := ctx.Clock

	baseVol := float64(inst.AvgVolume)
	vol := float64(inst.Volume)
	minute := clock.MarketTime

	if open {
		vol += (baseVol - vol) * 0.05
		vol += uniform(rng, -baseVol*0.025, baseVol*0.025)

		if inst.IntradayBias == 0 {
			inst.IntradayBias = uniform(rng, 0.7, 1.3)
		}
		vol *= inst.IntradayBias

		// Re-seed the intraday phase just after the midnight rollover.
		if inst.DailyVolumePhase == 0 || minute < 5 {
			inst.DailyVolumePhase = uniform(rng, -0.7, 0.7)
		}
		sinWave := 1.0 + 0.25*math.Sin(2*math.Pi*(clock.SessionRatio()+inst.DailyVolumePhase))
		vol *= sinWave

		switch {
		case minute >= 570 && minute <= 615: // opening rush
			vol *= uniform(rng, 1.2, 2.0)
		case minute >= 720 && minute <= 810: // lunch lull
			vol *= uniform(rng, 0.7, 0.95)
		case minute >= 900 && minute <= 960: // power hour
			vol *= uniform(rng, 1.1, 1.7)
		}

		if rng.Float64() < 0.02 {
			vol *= uniform(rng, 1.3, 3.2)
		}
	} else {
		targetAfterHours := baseVol * uniform(rng, 0.08, 0.18)
		vol += (targetAfterHours - vol) * 0.15
		vol += uniform(rng, -baseVol*0.005, baseVol*0.005)
	}

	vol *= profile.VolumeMult

	if open {
		if vol > inst.VolumeCap*0.7 {
			inst.VolumeCap *= uniform(rng, 1.01, 1.05)
		} else if vol < inst.VolumeCap*0.3 {
			inst.VolumeCap *= uniform(rng, 0.97, 0.995)
		}
		inst.VolumeCap *= uniform(rng, 0.999, 1.001)
	}
	inst.VolumeCap = clampF(inst.VolumeCap, baseVol*5, baseVol*40)

	// Soft clamp: overshoot keeps 30% of its excess instead of hard
	// clipping at the cap, which reads more naturally on charts.
	if vol > inst.VolumeCap {
		vol = inst.VolumeCap - (inst.VolumeCap-vol)*0.3
	}
	vol = math.Max(150, vol)
	inst.Volume = int64(vol)

	inst.VolumeHistory = append(inst.VolumeHistory, inst.Volume)
	if len(inst.VolumeHistory) > models.MaxVolumeHistory {
		inst.VolumeHistory = inst.VolumeHistory[len(inst.VolumeHistory)-models.MaxVolumeHistory:]
	}
}

func (t *Ticker) buildCandle(ctx TickContext, openingPrice, newPrice, sigma float64) {
	inst := t.Inst
	rng := ctx.Rng

	samples := make([]float64, 0, 6)
	micro := openingPrice
	for i := 0; i < 5; i++ {
		micro = math.Max(0.01, micro+rng.NormFloat64()*sigma*0.4)
		samples = append(samples, micro)
	}
	samples = append(samples, newPrice)

	key := BucketKey{Day: ctx.Clock.Day, Time: ctx.Clock.MarketTime}
	bar, opened := t.builder.Fold(key, samples, inst.Volume)
	if opened {
		inst.DayHistory = append(inst.DayHistory, bar)
	} else {
		inst.DayHistory[len(inst.DayHistory)-1] = bar
	}
	if len(inst.DayHistory) > models.MaxDayHistory {
		inst.DayHistory = inst.DayHistory[len(inst.DayHistory)-models.MaxDayHistory:]
	}
}

// ResetDailyVolume re-seeds the instrument's volume for a fresh trading day.
func (t *Ticker) ResetDailyVolume(rng *rand.Rand) {
	v := float64(t.Inst.AvgVolume) * uniform(rng, 0.5, 1.2)
	if v < 0 {
		v = 0
	}
	t.Inst.Volume = int64(v)
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
