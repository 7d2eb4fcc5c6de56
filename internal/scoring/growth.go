package scoring

import (
	"sort"
	"time"

	"CoinScout/internal/domain/models"
)

// ComputeGrowth derives the percentage price change for every configured
// timeframe from a candle window. The window must be ascending by
// timestamp. For each spec the reference candle is the one closest to
// (now - window) without overshooting into the future; if no candle
// exists at or before that boundary, or fewer than two candles are
// available at all, the entry is nil. A reference close of exactly zero
// also yields nil: zero-priced assets cannot produce a meaningful
// percentage. Full floating-point precision is retained; rounding is a
// presentation concern.
func ComputeGrowth(window []models.Candle, specs []models.TimeframeSpec, now time.Time) models.GrowthVector {
	out := make(models.GrowthVector, len(specs))
	for _, spec := range specs {
		out[spec.Label] = nil
	}
	if len(window) < 2 {
		return out
	}

	latest := window[len(window)-1].Close
	for _, spec := range specs {
		boundary := now.Add(-spec.Window)
		ref, ok := candleAtOrBefore(window, boundary)
		if !ok || ref.Close == 0 {
			continue
		}
		growth := (latest - ref.Close) / ref.Close * 100
		out[spec.Label] = &growth
	}
	return out
}

// candleAtOrBefore returns the latest candle whose timestamp does not
// exceed the boundary.
func candleAtOrBefore(window []models.Candle, boundary time.Time) (models.Candle, bool) {
	// First index strictly after the boundary.
	i := sort.Search(len(window), func(i int) bool {
		return window[i].Timestamp.After(boundary)
	})
	if i == 0 {
		return models.Candle{}, false
	}
	return window[i-1], true
}

// ComputeReturns converts a candle window into close-over-close percentage
// returns, keeping at most the last n. Zero-priced previous closes are
// skipped rather than dividing by zero.
func ComputeReturns(window []models.Candle, n int) []float64 {
	if len(window) < 2 {
		return nil
	}
	out := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, (window[i].Close-prev)/prev*100)
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
