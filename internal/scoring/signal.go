package scoring

import "CoinScout/internal/domain/models"

// activityMultiplier is the hard multiplicative gate derived from the
// dead-period count: a single dead period halves the composite no matter
// how strong the other components are, two or more nearly zero it out.
func activityMultiplier(deadPeriods int) float64 {
	switch deadPeriods {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.1
	}
}

// classify maps a composite score to a signal, first match wins. Any dead
// period overrides every score-based tier.
func classify(composite float64, deadPeriods int) models.Signal {
	if deadPeriods >= 1 {
		return models.SignalDead
	}
	switch {
	case composite >= 80:
		return models.SignalStrongBuy
	case composite >= 70:
		return models.SignalBuy
	case composite >= 60:
		return models.SignalWeakBuy
	case composite >= 50:
		return models.SignalHold
	case composite >= 30:
		return models.SignalWeakSell
	default:
		return models.SignalStrongSell
	}
}
