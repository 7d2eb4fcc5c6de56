package profile

import "CoinScout/internal/domain/models"

// featureWeights is the frequency with which each indicator appears in
// profitable strategies, used as its weight in the technical score.
var featureWeights = map[string]float64{
	"atr_ratio":         0.75,
	"returns_std_50":    0.63,
	"volume_mean_50":    0.57,
	"volume_std_50":     0.51,
	"volume_std_20":     0.29,
	"macd_signal":       0.27,
	"returns_mean_50":   0.25,
	"macd_hist":         0.20,
	"volume_mean_20":    0.15,
	"volume_mean_10":    0.15,
	"returns_std_20":    0.13,
	"high_low_ratio":    0.12,
	"rsi":               0.10,
	"rsi_7":             0.10,
	"returns_mean_20":   0.10,
	"volume_std_10":     0.10,
	"macd":              0.08,
	"close_open_ratio":  0.08,
	"bb_width":          0.08,
	"bb_position":       0.08,
	"price_sma7_ratio":  0.08,
	"price_sma25_ratio": 0.08,
	"returns_mean_10":   0.08,
	"returns_std_10":    0.08,
	"returns":           0.05,
	"volume_ratio":      0.05,
}

// fallbackWeight is used for profile features absent from the frequency
// table so they still participate, faintly, in the weighted average.
const fallbackWeight = 0.05

// universalFeatures is the baseline indicator subset used when a symbol
// has no entry in the external profile table.
var universalFeatures = []string{
	"atr_ratio",
	"returns_std_50",
	"volume_mean_50",
	"volume_std_50",
	"volume_std_20",
	"macd_signal",
	"returns_mean_50",
}

// DefaultProfile returns the uniform-weight fallback profile over the
// universal indicator subset.
func DefaultProfile(symbol string) models.IndicatorProfile {
	entries := make([]models.ProfileEntry, len(universalFeatures))
	for i, name := range universalFeatures {
		entries[i] = models.ProfileEntry{Indicator: name, Weight: 1.0}
	}
	return models.IndicatorProfile{Symbol: symbol, Entries: entries, Fallback: true}
}

func weightFor(name string) float64 {
	if w, ok := featureWeights[name]; ok {
		return w
	}
	return fallbackWeight
}
