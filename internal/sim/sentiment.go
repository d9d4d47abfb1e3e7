package sim

import "math/rand"

// Sentiment holds the scalar per-sector sentiment field and the global market
// mood. Instruments read it every tick; Step mutates it rarely and gently.
// Sectors step in their given order so a seeded run replays exactly.
type Sentiment struct {
	order   []string
	sectors map[string]float64
	mood    float64
}

// NewSentiment creates a neutral field covering the given sectors.
func NewSentiment(sectors []string) *Sentiment {
	s := &Sentiment{
		order:   append([]string(nil), sectors...),
		sectors: make(map[string]float64, len(sectors)),
	}
	for _, sec := range sectors {
		s.sectors[sec] = 0
	}
	return s
}

// SectorValue returns the sentiment for sector, 0 for unknown sectors.
func (s *Sentiment) SectorValue(sector string) float64 {
	return s.sectors[sector]
}

// Mood returns the global market mood, applied as a direct price force.
func (s *Sentiment) Mood() float64 {
	return s.mood
}

// Step advances the field by one tick: each sector takes a small clamped
// random-walk step, and about once every 500 ticks the mood jumps to a fresh
// value with a slight bear bias.
func (s *Sentiment) Step(rng *rand.Rand) {
	for _, sec := range s.order {
		v := s.sectors[sec] + rng.NormFloat64()*0.02
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		s.sectors[sec] = v
	}

	if rng.Float64() < 0.002 {
		s.mood = -0.003 + rng.Float64()*0.005
	}
}

// SetMood overrides the mood; used by tests and scenario tooling.
func (s *Sentiment) SetMood(m float64) { s.mood = m }

// SetSector overrides one sector value; used by tests and scenario tooling.
func (s *Sentiment) SetSector(sector string, v float64) {
	s.sectors[sector] = v
}
