package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"CoinScout/internal/domain/models"
	domrepo "CoinScout/internal/domain/repository"
	"CoinScout/internal/indicators"
	"CoinScout/internal/scoring"
	"CoinScout/pkg/cache"
	applogger "CoinScout/pkg/logger"
)

// ScoreboardCacheKey is where the latest ranked scoreboard snapshot lives.
const ScoreboardCacheKey = "scoreboard:latest"

// cycleLockKey guards against overlapping scan cycles, including cycles
// on other instances sharing the cache.
const cycleLockKey = "scan:cycle:lock"

// windowLookback is how many candles each symbol's scoring window holds.
// The longest indicator (50-period rolling stats) plus one extra candle
// for returns fits comfortably.
const windowLookback = 100

// SymbolSource lists the symbols a scan cycle should cover.
type SymbolSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Scanner runs one full scoring cycle over the tradable universe: read
// each symbol's candle window, compute growth, indicators and correlation,
// combine them into a breakdown, then persist, publish and cache the
// ranked result.
type Scanner struct {
	symbols  SymbolSource
	history  domrepo.HistoryProvider
	profiles domrepo.ProfileProvider
	scores   domrepo.ScoreStore
	pub      domrepo.ScorePublisher
	cache    cache.Service
	metrics  domrepo.Metrics
	engine   *scoring.Engine
	log      *applogger.Logger

	corrLookback int
	cacheTTL     time.Duration
}

// NewScanner creates a scan cycle use case.
func NewScanner(
	symbols SymbolSource,
	history domrepo.HistoryProvider,
	profiles domrepo.ProfileProvider,
	scores domrepo.ScoreStore,
	pub domrepo.ScorePublisher,
	c cache.Service,
	metrics domrepo.Metrics,
	engine *scoring.Engine,
	log *applogger.Logger,
	corrLookback int,
	cacheTTL time.Duration,
) *Scanner {
	if corrLookback <= 0 {
		corrLookback = 50
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Scanner{
		symbols:      symbols,
		history:      history,
		profiles:     profiles,
		scores:       scores,
		pub:          pub,
		cache:        c,
		metrics:      metrics,
		engine:       engine,
		log:          log,
		corrLookback: corrLookback,
		cacheTTL:     cacheTTL,
	}
}

// RunCycle scores every symbol in the universe once. Per-symbol failures
// are recorded and skipped; the cycle fails only when nothing upstream
// works at all.
func (s *Scanner) RunCycle(ctx context.Context) error {
	start := time.Now()

	if s.cache != nil {
		ok, err := s.cache.TryLock(ctx, cycleLockKey, s.cacheTTL)
		if err != nil {
			s.metrics.RecordError("cycle_lock")
		} else if !ok {
			s.log.Warn("scan cycle already running, skipping")
			return nil
		} else {
			defer func() { _ = s.cache.Unlock(ctx, cycleLockKey) }()
		}
	}

	symbols, err := s.symbols.Symbols(ctx)
	if err != nil {
		s.metrics.RecordError("symbols")
		return fmt.Errorf("list symbols: %w", err)
	}

	refReturns, err := s.history.GetReferenceReturns(ctx, s.corrLookback)
	if err != nil {
		s.metrics.RecordError("reference_returns")
		s.log.Warn("reference returns unavailable", applogger.Error(err))
		refReturns = nil
	}

	now := time.Now().UTC()
	breakdowns := make([]models.ScoreBreakdown, 0, len(symbols))
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := s.scoreSymbol(ctx, symbol, now, refReturns)
		if err != nil {
			s.metrics.RecordError("score_symbol")
			s.log.Debug("skip symbol", applogger.String("symbol", symbol), applogger.Error(err))
			continue
		}
		if b == nil {
			continue
		}
		breakdowns = append(breakdowns, *b)
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].CompositeScore != breakdowns[j].CompositeScore {
			return breakdowns[i].CompositeScore > breakdowns[j].CompositeScore
		}
		return breakdowns[i].Symbol < breakdowns[j].Symbol
	})

	if err := s.scores.StoreBreakdowns(ctx, breakdowns); err != nil {
		s.metrics.RecordError("store_scores")
		s.log.Error("store breakdowns", applogger.Error(err))
	}
	if err := s.pub.PublishBreakdowns(ctx, breakdowns); err != nil {
		s.metrics.RecordError("publish_scores")
		s.log.Error("publish breakdowns", applogger.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, ScoreboardCacheKey, breakdowns, s.cacheTTL); err != nil {
			s.metrics.RecordError("cache_scoreboard")
		}
	}

	for _, b := range breakdowns {
		s.metrics.RecordSignal(string(b.Signal))
		s.metrics.RecordComposite(b.Symbol, b.CompositeScore)
	}
	s.metrics.RecordCycle(len(breakdowns), time.Since(start).Seconds())
	s.log.Info("scan cycle complete",
		applogger.Int("symbols", len(breakdowns)),
		applogger.Duration("took", time.Since(start)),
	)
	return nil
}

// scoreSymbol builds one breakdown. A nil result with nil error means the
// symbol has no usable history yet.
func (s *Scanner) scoreSymbol(ctx context.Context, symbol string, now time.Time, refReturns []float64) (*models.ScoreBreakdown, error) {
	window, err := s.history.GetWindow(ctx, symbol, windowLookback)
	if err != nil {
		return nil, fmt.Errorf("window %s: %w", symbol, err)
	}
	if len(window) == 0 {
		return nil, nil
	}

	growth := scoring.ComputeGrowth(window, s.engine.Specs(), now)

	profile := s.profiles.GetIndicatorProfile(symbol)
	values := indicators.Compute(window, profile)
	technical := indicators.TechnicalScore(values, profile)

	var correlation *float64
	if len(refReturns) > 0 {
		symReturns := scoring.ComputeReturns(window, len(refReturns))
		if len(symReturns) == len(refReturns) {
			correlation, err = scoring.ComputeCorrelation(symReturns, refReturns)
			if err != nil {
				// A miscounted series costs the correlation, not the symbol.
				s.metrics.RecordError("correlation")
				correlation = nil
			}
		}
	}

	b := s.engine.Score(scoring.Input{
		Symbol:         symbol,
		Price:          window[len(window)-1].Close,
		Now:            now,
		Growth:         growth,
		TechnicalScore: technical,
		Correlation:    correlation,
	})
	return &b, nil
}
