package scoring

import "CoinScout/internal/domain/models"

// consistencyDropPenalty is the deduction per percentage point by which a
// longer timeframe's growth falls short of the previous one.
const consistencyDropPenalty = 10.0

// ConsistencyScore measures how steadily growth progresses across the
// configured timeframes. It is defined only when every timeframe has
// non-nil, non-negative growth; any negative or missing timeframe
// disqualifies the symbol and yields nil. A strictly non-decreasing
// growth profile scores 100; each drop between adjacent timeframes
// deducts proportionally to its magnitude, clamped at 0.
func ConsistencyScore(growth models.GrowthVector, specs []models.TimeframeSpec) *float64 {
	rates := make([]float64, 0, len(specs))
	for _, spec := range specs {
		r := growth[spec.Label]
		if r == nil || *r < 0 {
			return nil
		}
		rates = append(rates, *r)
	}
	if len(rates) == 0 {
		return nil
	}

	score := 100.0
	for i := 1; i < len(rates); i++ {
		if drop := rates[i-1] - rates[i]; drop > 0 {
			score -= drop * consistencyDropPenalty
		}
	}
	if score < 0 {
		score = 0
	}
	return &score
}
