package sim

// minutesPerDay is the length of one simulated day.
const minutesPerDay = 1440

// Clock tracks simulated market time and the season calendar. It is owned by
// the engine and read by every instrument tick.
type Clock struct {
	// MarketTime is minutes since midnight, [0, 1440).
	MarketTime int
	// Day counts simulated days, monotonically.
	Day int
	// Season cycles 1..4.
	Season int
	// DayInSeason cycles 1..DaysPerSeason.
	DayInSeason   int
	DaysPerSeason int

	// MarketOpen and MarketClose are minute-of-day thresholds. The open
	// interval is inclusive on both ends: the close minute is still a
	// tradable tick.
	MarketOpen  int
	MarketClose int
}

// Advance adds minutes to the clock, rolling over days and seasons as needed.
// It returns the number of day rollovers that occurred.
func (c *Clock) Advance(minutes int) int {
	c.MarketTime += minutes
	days := 0
	for c.MarketTime >= minutesPerDay {
		c.MarketTime -= minutesPerDay
		c.advanceDay()
		days++
	}
	return days
}

func (c *Clock) advanceDay() {
	c.Day++
	c.DayInSeason++
	if c.DayInSeason > c.DaysPerSeason {
		c.Season++
		c.DayInSeason = 1
	}
	if c.Season > 4 {
		c.Season = 1
	}
}

// IsOpen reports whether the market is trading at the current minute.
func (c *Clock) IsOpen() bool {
	return c.MarketOpen <= c.MarketTime && c.MarketTime <= c.MarketClose
}

// AbsoluteMinutes returns a monotone timestamp in simulated minutes, so
// durations (like the breakout cooldown) survive the midnight rollover.
func (c *Clock) AbsoluteMinutes() int64 {
	return int64(c.Day)*minutesPerDay + int64(c.MarketTime)
}

// SessionRatio returns how far the current minute is into the trading
// session, 0 at the open and 1 at the close.
func (c *Clock) SessionRatio() float64 {
	span := c.MarketClose - c.MarketOpen
	if span < 1 {
		span = 1
	}
	return float64(c.MarketTime-c.MarketOpen) / float64(span)
}
