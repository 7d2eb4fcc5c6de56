package models

import "time"

// TimeframeSpec describes one growth window together with its scoring
// thresholds. A single ordered set of specs is configured at startup and
// shared by every component that looks at growth (rates, penalties,
// consistency) so the lists can never drift apart.
type TimeframeSpec struct {
	Label       string
	Window      time.Duration
	MinGrowth   float64 // percent growth that earns a reward
	ZeroPenalty float64 // negative contribution for exactly 0% growth
}

// DefaultTimeframeSpecs returns the canonical timeframe set. Thresholds
// tighten and penalties steepen as the window lengthens.
func DefaultTimeframeSpecs() []TimeframeSpec {
	return []TimeframeSpec{
		{Label: "5m", Window: 5 * time.Minute, MinGrowth: 3, ZeroPenalty: -20},
		{Label: "15m", Window: 15 * time.Minute, MinGrowth: 5, ZeroPenalty: -25},
		{Label: "30m", Window: 30 * time.Minute, MinGrowth: 7, ZeroPenalty: -30},
		{Label: "1h", Window: time.Hour, MinGrowth: 10, ZeroPenalty: -35},
	}
}

// MaxWindow returns the longest window among the specs.
func MaxWindow(specs []TimeframeSpec) time.Duration {
	var max time.Duration
	for _, s := range specs {
		if s.Window > max {
			max = s.Window
		}
	}
	return max
}

// TimeframeLabels returns the labels of the specs in declared order.
func TimeframeLabels(specs []TimeframeSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Label
	}
	return out
}
