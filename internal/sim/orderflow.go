package sim

import "math"

// orderDecay is the per-tick exponential decay applied to pending buy
// pressure. DecayAndRead compounds it, so it must run exactly once per
// instrument per tick.
const orderDecay = 0.98

// OrderFlow tracks a decaying buy-pressure impulse per ticker. External buys
// add to it; every tick reads it down.
type OrderFlow struct {
	force map[string]float64
}

func NewOrderFlow() *OrderFlow {
	return &OrderFlow{force: make(map[string]float64)}
}

// RecordBuy adds qty shares of buy pressure for ticker. Call it only for
// accepted, fully-paid orders.
func (f *OrderFlow) RecordBuy(ticker string, qty int) {
	f.force[ticker] += float64(qty)
}

// DecayAndRead decays the stored pressure for ticker and returns the price
// impulse it exerts this tick. The impulse is scaled by a liquidity factor so
// the same order size moves a thin stock more than a liquid one.
func (f *OrderFlow) DecayAndRead(ticker string, avgVolume int64) float64 {
	v, ok := f.force[ticker]
	if !ok {
		return 0
	}
	v *= orderDecay
	f.force[ticker] = v

	liquidity := 1 / math.Max(1.0, math.Sqrt(float64(avgVolume)))
	return v * 0.000001 * liquidity
}

// Pending returns the raw stored pressure for ticker, before scaling.
func (f *OrderFlow) Pending(ticker string) float64 {
	return f.force[ticker]
}
