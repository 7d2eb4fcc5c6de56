package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinScout/internal/domain/models"
	domrepo "CoinScout/internal/domain/repository"
	"CoinScout/pkg/cache"
)

// ScoreboardUseCase serves ranked score snapshots and candle history to
// the API layer. Reads prefer the cycle cache and fall back to storage.
type ScoreboardUseCase struct {
	scores  domrepo.ScoreStore
	candles domrepo.CandleStore
	cache   cache.Service
}

func NewScoreboardUseCase(scores domrepo.ScoreStore, candles domrepo.CandleStore, c cache.Service) *ScoreboardUseCase {
	return &ScoreboardUseCase{scores: scores, candles: candles, cache: c}
}

type ScoreboardParams struct {
	Signal   string
	MinScore float64
	Limit    int
}

type ScoreboardResult struct {
	Total      int                     `json:"total"`
	Breakdowns []models.ScoreBreakdown `json:"rows"`
}

// GetScoreboard returns the latest ranked breakdowns, filtered by signal
// and minimum composite score.
func (uc *ScoreboardUseCase) GetScoreboard(ctx context.Context, p ScoreboardParams) (*ScoreboardResult, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}

	breakdowns, err := uc.latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest breakdowns: %w", err)
	}

	filtered := make([]models.ScoreBreakdown, 0, len(breakdowns))
	for _, b := range breakdowns {
		if p.Signal != "" && string(b.Signal) != p.Signal {
			continue
		}
		if b.CompositeScore < p.MinScore {
			continue
		}
		filtered = append(filtered, b)
	}

	total := len(filtered)
	if len(filtered) > p.Limit {
		filtered = filtered[:p.Limit]
	}
	return &ScoreboardResult{Total: total, Breakdowns: filtered}, nil
}

// GetSymbol returns the latest breakdown for one symbol, nil when the
// symbol has never been scored.
func (uc *ScoreboardUseCase) GetSymbol(ctx context.Context, symbol string) (*models.ScoreBreakdown, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	// The cache holds the whole scoreboard; scan it before hitting storage.
	if uc.cache != nil {
		var cached []models.ScoreBreakdown
		if err := uc.cache.Get(ctx, ScoreboardCacheKey, &cached); err == nil {
			for i := range cached {
				if cached[i].Symbol == symbol {
					return &cached[i], nil
				}
			}
		}
	}

	return uc.scores.LatestBreakdown(ctx, symbol)
}

type GetCandlesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetCandlesResult struct {
	Symbol  string          `json:"symbol"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Count   int             `json:"count"`
	Candles []models.Candle `json:"candles"`
}

// GetCandles returns candle history for a symbol within a time range.
func (uc *ScoreboardUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 500
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	candles, err := uc.candles.GetCandles(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}

	return &GetCandlesResult{
		Symbol:  p.Symbol,
		From:    p.From,
		To:      p.To,
		Count:   len(candles),
		Candles: candles,
	}, nil
}

func (uc *ScoreboardUseCase) latest(ctx context.Context) ([]models.ScoreBreakdown, error) {
	if uc.cache != nil {
		var cached []models.ScoreBreakdown
		if err := uc.cache.Get(ctx, ScoreboardCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}
	return uc.scores.LatestBreakdowns(ctx)
}
