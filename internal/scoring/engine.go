package scoring

import (
	"time"

	"CoinScout/internal/domain/models"
)

// Composite weighting. A nil consistency score contributes 0, not a
// neutral default: missing consistency is penalized, not ignored.
const (
	technicalWeight   = 0.4
	growthWeight      = 0.3
	consistencyWeight = 0.3
)

// Engine combines growth, technical strength and consistency into a
// composite score and a trading signal. It is a pure computation: one
// immutable spec set in, one ScoreBreakdown out, no I/O and no shared
// state, so concurrent calls for independent symbols are safe.
type Engine struct {
	specs []models.TimeframeSpec
}

// NewEngine builds an engine over the given timeframe set. An empty set
// falls back to the canonical defaults.
func NewEngine(specs []models.TimeframeSpec) *Engine {
	if len(specs) == 0 {
		specs = models.DefaultTimeframeSpecs()
	}
	return &Engine{specs: specs}
}

// Specs returns the engine's timeframe set.
func (e *Engine) Specs() []models.TimeframeSpec { return e.specs }

// Input carries the per-symbol features one scoring pass consumes.
type Input struct {
	Symbol         string
	Price          float64
	Now            time.Time
	Growth         models.GrowthVector
	TechnicalScore float64
	// Correlation is the |r|*100 magnitude versus the reference asset,
	// nil when it could not be computed.
	Correlation *float64
}

// Score produces the breakdown for one symbol.
func (e *Engine) Score(in Input) models.ScoreBreakdown {
	growthScore, deadPeriods := e.growthScore(in.Growth)
	consistency := ConsistencyScore(in.Growth, e.specs)

	var consistencyTerm float64
	if consistency != nil {
		consistencyTerm = *consistency
	}

	multiplier := activityMultiplier(deadPeriods)
	composite := (in.TechnicalScore*technicalWeight +
		growthScore*growthWeight +
		consistencyTerm*consistencyWeight) * multiplier

	return models.ScoreBreakdown{
		Symbol:           in.Symbol,
		Timestamp:        in.Now,
		Price:            in.Price,
		GrowthRates:      in.Growth,
		TechnicalScore:   in.TechnicalScore,
		GrowthScore:      growthScore,
		ConsistencyScore: consistency,
		BTCCorrelation:   in.Correlation,
		DeadPeriods:      deadPeriods,
		CompositeScore:   composite,
		Signal:           classify(composite, deadPeriods),
	}
}

// growthScore averages per-timeframe contributions: growth at or above
// the bar rewards the excess over the bar, exactly 0% growth is a dead
// period and contributes the configured penalty, anything else below the
// bar contributes nothing. Timeframes without data are excluded from the
// average entirely; with no data at all both the score and the dead count
// are 0 (a symbol cannot be classified dead without data).
func (e *Engine) growthScore(growth models.GrowthVector) (float64, int) {
	var sum float64
	var observed, dead int

	for _, spec := range e.specs {
		rate := growth[spec.Label]
		if rate == nil {
			continue
		}
		observed++
		switch {
		case *rate == 0:
			sum += spec.ZeroPenalty
			dead++
		case *rate >= spec.MinGrowth:
			sum += *rate - spec.MinGrowth
		}
	}

	if observed == 0 {
		return 0, 0
	}
	return sum / float64(observed), dead
}
