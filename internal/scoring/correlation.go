package scoring

import (
	"errors"
	"math"
)

// ErrMisalignedSeries reports correlation inputs of unequal length.
// Misaligned series are an error, never silently truncated.
var ErrMisalignedSeries = errors.New("scoring: correlation series misaligned")

// ComputeCorrelation computes the magnitude of the Pearson correlation
// between a symbol's return series and the reference asset's return
// series, scaled to [0,100]. The sign is discarded: the result measures
// strength of relationship, not direction. A zero-variance input on
// either side yields nil (undefined correlation, not zero), as do series
// too short to correlate.
func ComputeCorrelation(symbolReturns, referenceReturns []float64) (*float64, error) {
	if len(symbolReturns) != len(referenceReturns) {
		return nil, ErrMisalignedSeries
	}
	n := len(symbolReturns)
	if n < 2 {
		return nil, nil
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += symbolReturns[i]
		sumY += referenceReturns[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := symbolReturns[i] - meanX
		dy := referenceReturns[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return nil, nil
	}

	r := cov / math.Sqrt(varX*varY)
	magnitude := math.Abs(r) * 100
	if magnitude > 100 {
		magnitude = 100 // guard against float drift
	}
	return &magnitude, nil
}

// CorrelationBand classifies a correlation magnitude for display.
// The band is a consumer-side view and is never stored on the breakdown.
func CorrelationBand(magnitude float64) string {
	switch {
	case magnitude > 70:
		return "high"
	case magnitude >= 30:
		return "medium"
	default:
		return "low"
	}
}
