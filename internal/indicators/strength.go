package indicators

import "CoinScout/internal/domain/models"

// TechnicalScore computes the technical strength of a symbol in [0,100]
// as the weight-normalized average of the sub-scores of every indicator
// present in both the profile and the computed values. With nothing
// present the score is 0, not nil: the absence of a technical signal is
// treated as neutral-low because it feeds a multiplicative composite.
func TechnicalScore(values models.IndicatorValues, profile models.IndicatorProfile) float64 {
	var total, totalWeight float64
	for _, entry := range profile.Entries {
		ind, ok := Parse(entry.Indicator)
		if !ok {
			continue
		}
		v, ok := values[entry.Indicator]
		if !ok {
			continue
		}
		total += subScore(ind, v) * entry.Weight
		totalWeight += entry.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	score := total / totalWeight * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
