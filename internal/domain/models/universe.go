package models

// DefaultUniverse returns the starting instrument set used to seed an empty
// game store. ATH/ATL start at the opening price and widen from there.
func DefaultUniverse() []*Instrument {
	seed := []struct {
		ticker     string
		name       string
		sector     string
		price      float64
		basePrice  float64
		volatility VolatilityClass
		gravity    float64
		volume     int64
		avgVolume  int64
	}{
		{"SOLR", "Solara Energy Corp", "Energy", 41.61, 40.0, VolatilityMedium, 0.0003, 22000, 20000},
		{"NEOT", "Neoteric Tech Holdings", "Technology", 132.40, 120.0, VolatilityHigh, 0.0002, 58000, 55000},
		{"GLBX", "Globetronix Robotics", "Technology", 88.20, 85.0, VolatilityHigh, 0.0004, 31000, 30000},
		{"FNLT", "Finality Financial Group", "Finance", 58.75, 55.0, VolatilityLow, 0.0002, 18000, 19000},
		{"AQUA", "Aquadyne Water Systems", "Utilities", 27.44, 28.0, VolatilityLow, 0.0001, 12000, 10000},
		{"BRIX", "Brixon Construction Co", "Industrial", 73.55, 70.0, VolatilityMedium, 0.0003, 25000, 24000},
		{"CRSN", "Crescent Pharmaceuticals", "Healthcare", 94.28, 92.0, VolatilityMedium, 0.0002, 32000, 30000},
		{"GRNV", "Green Valley Foods", "Consumer", 19.14, 20.0, VolatilityLow, 0.0004, 8000, 10000},
		{"ALTO", "Alto AeroDynamics", "Industrial", 148.90, 140.0, VolatilityHigh, 0.0003, 54000, 50000},
		{"MSTR", "Maestro Media LLC", "Communication", 44.02, 45.0, VolatilityMedium, 0.0003, 22000, 21000},
		{"STGW", "Stargrow Agriculture", "Consumer", 12.73, 13.5, VolatilityMedium, 0.0005, 6000, 9000},
		{"VRSE", "VersEdge Software", "Technology", 66.88, 60.0, VolatilityHigh, 0.0002, 40000, 35000},
		{"IRON", "Ironshield Defense Corp", "Industrial", 103.22, 100.0, VolatilityMedium, 0.0003, 31000, 30000},
		{"CTRP", "Centropoint Retail", "Consumer", 8.44, 9.0, VolatilityLow, 0.0004, 9000, 10000},
		{"HRTX", "Horizon Textiles", "Industrial", 51.19, 50.0, VolatilityMedium, 0.0003, 15000, 17000},
		{"OMNI", "Omnitech Global", "Technology", 254.90, 240.0, VolatilityHigh, 0.0002, 68000, 65000},
		{"MEGA", "MegaMart Holdings", "Consumer", 34.77, 33.0, VolatilityLow, 0.0003, 20000, 21000},
		{"QUAN", "Quantum Analytics", "Technology", 177.44, 165.0, VolatilityHigh, 0.0003, 52000, 50000},
		{"VSPR", "Vesper Renewable Power", "Energy", 29.33, 28.0, VolatilityMedium, 0.0004, 16000, 15000},
	}

	out := make([]*Instrument, 0, len(seed))
	for _, s := range seed {
		inst := &Instrument{
			Ticker:       s.ticker,
			Name:         s.name,
			Sector:       s.sector,
			CurrentPrice: s.price,
			LastPrice:    s.price,
			BasePrice:    s.basePrice,
			Volatility:   s.volatility,
			Gravity:      s.gravity,
			ATH:          s.price,
			ATL:          s.price,
			Volume:       s.volume,
			AvgVolume:    s.avgVolume,
		}
		inst.Normalize()
		out = append(out, inst)
	}
	return out
}
