package indicators

// Per-indicator normalization of a raw measurement to a [0,1] sub-score.
// The curves are fixed constants versioned with the binary, not derived
// at runtime.

// thresholdRule maps a value through a clamped linear scale: at or above
// bullish scores 1.0, between bearish and bullish interpolates linearly,
// below bearish scores the floor.
type thresholdRule struct {
	bullish float64
	bearish float64
}

const thresholdFloor = 0.2

func (r thresholdRule) score(v float64) float64 {
	switch {
	case v >= r.bullish:
		return 1.0
	case v >= r.bearish:
		span := r.bullish - r.bearish
		if span <= 0 {
			return 0.5
		}
		return (v - r.bearish) / span
	default:
		return thresholdFloor
	}
}

var thresholdRules = map[Indicator]thresholdRule{
	ATRRatio:     {bullish: 0.02, bearish: 0.005},
	ReturnsStd50: {bullish: 0.02, bearish: 0.001},
	VolumeMean50: {bullish: 1.2, bearish: 0.8},
	VolumeStd50:  {bullish: 0.3, bearish: 0.1},
	MACDSignal:   {bullish: 0, bearish: -0.5},
	BBPosition:   {bullish: 0.5, bearish: 0.2},
	VolumeRatio:  {bullish: 1.5, bearish: 0.5},
}

// rsiScore bands the bounded RSI: overbought is a caution, the bullish
// range scores highest, oversold scores lowest.
func rsiScore(v float64) float64 {
	switch {
	case v >= 70:
		return 0.3
	case v >= 50:
		return 0.8
	case v >= 30:
		return 0.5
	default:
		return 0.2
	}
}

// family is the fallback curve for indicators without an explicit rule.
type family int

const (
	familyNeutral family = iota
	familyVolume
	familyVolatility
	familyRatio
)

var indicatorFamilies = map[Indicator]family{
	Returns:         familyNeutral,
	ReturnsStd20:    familyVolatility,
	ReturnsStd10:    familyVolatility,
	ReturnsMean50:   familyNeutral,
	ReturnsMean20:   familyNeutral,
	ReturnsMean10:   familyNeutral,
	VolumeMean20:    familyVolume,
	VolumeMean10:    familyVolume,
	VolumeStd20:     familyVolatility,
	VolumeStd10:     familyVolatility,
	MACD:            familyNeutral,
	MACDHist:        familyNeutral,
	BBWidth:         familyNeutral,
	HighLowRatio:    familyRatio,
	CloseOpenRatio:  familyRatio,
	PriceSMA7Ratio:  familyRatio,
	PriceSMA25Ratio: familyRatio,
	SMA7SMA25Ratio:  familyRatio,
}

func familyScore(f family, v float64) float64 {
	switch f {
	case familyVolume:
		// Higher relative volume is generally better.
		switch {
		case v > 1.5:
			return 1.0
		case v > 1.0:
			return 0.7
		case v > 0.5:
			return 0.5
		default:
			return 0.2
		}
	case familyVolatility:
		// Moderate volatility is the sweet spot.
		switch {
		case v > 0.01 && v < 0.05:
			return 1.0
		case v > 0.005 && v < 0.1:
			return 0.7
		default:
			return 0.3
		}
	case familyRatio:
		// Close to 1 is neutral, above is bullish.
		switch {
		case v > 0.95 && v < 1.05:
			return 0.5
		case v >= 1.05:
			return minFloat(1.0, (v-1)*2)
		default:
			return maxFloat(0.2, v)
		}
	default:
		return 0.5
	}
}

// subScore normalizes a raw indicator value to [0,1].
func subScore(ind Indicator, v float64) float64 {
	if ind == RSI || ind == RSI7 {
		return rsiScore(v)
	}
	if rule, ok := thresholdRules[ind]; ok {
		return rule.score(v)
	}
	return familyScore(indicatorFamilies[ind], v)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
