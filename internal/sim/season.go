package sim

// SeasonProfile biases the whole market for one quarter of the simulated year.
type SeasonProfile struct {
	TrendBias      float64
	VolatilityMult float64
	VolumeMult     float64
}

// seasonProfiles maps season 1..4 to its macro profile: a mild Q1 rally, a
// flat Q2, a volatile Q3 selloff, and a choppy Q4.
var seasonProfiles = map[int]SeasonProfile{
	1: {TrendBias: 0.001, VolatilityMult: 1.1, VolumeMult: 1.1},
	2: {TrendBias: 0.000, VolatilityMult: 1.0, VolumeMult: 1.0},
	3: {TrendBias: -0.0015, VolatilityMult: 1.4, VolumeMult: 1.2},
	4: {TrendBias: -0.0005, VolatilityMult: 1.2, VolumeMult: 1.0},
}

// ProfileFor returns the profile for a season, falling back to the neutral
// profile for out-of-range values.
func ProfileFor(season int) SeasonProfile {
	if p, ok := seasonProfiles[season]; ok {
		return p
	}
	return SeasonProfile{VolatilityMult: 1, VolumeMult: 1}
}
