package models

import "time"

// GrowthVector maps a timeframe label to its percentage price change.
// A nil entry means the window had insufficient history; absent data is
// never encoded as zero.
type GrowthVector map[string]*float64

// Signal is the discrete recommendation derived from the composite score
// and the dead-period count.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalWeakBuy    Signal = "WEAK_BUY"
	SignalHold       Signal = "HOLD"
	SignalWeakSell   Signal = "WEAK_SELL"
	SignalStrongSell Signal = "STRONG_SELL"
	SignalDead       Signal = "DEAD"
)

// IndicatorValues maps an indicator name to its latest measurement,
// computed fresh from the candle window each cycle.
type IndicatorValues map[string]float64

// ScoreBreakdown is the full scoring result for one symbol in one cycle.
// It is immutable once produced; the next cycle supersedes it rather than
// mutating it.
type ScoreBreakdown struct {
	Symbol           string       `json:"symbol"`
	Timestamp        time.Time    `json:"timestamp"`
	Price            float64      `json:"price"`
	GrowthRates      GrowthVector `json:"growth_rates"`
	TechnicalScore   float64      `json:"technical_score"`
	GrowthScore      float64      `json:"growth_score"`
	ConsistencyScore *float64     `json:"consistency_score"`
	BTCCorrelation   *float64     `json:"btc_correlation"`
	DeadPeriods      int          `json:"dead_period_count"`
	CompositeScore   float64      `json:"composite_score"`
	Signal           Signal       `json:"signal"`
}
