package usecase

import (
	"context"
	"time"

	"CoinScout/internal/domain/models"
	domrepo "CoinScout/internal/domain/repository"
	"CoinScout/pkg/cache"
)

const lastPriceKeyPrefix = "price:"

// TickRecorder is the downstream end of the live tick pipeline. It keeps
// the last-price metric and cache entry fresh between scan cycles.
type TickRecorder struct {
	cache    cache.Service
	metrics  domrepo.Metrics
	cacheTTL time.Duration
}

// NewTickRecorder creates a tick recorder.
func NewTickRecorder(c cache.Service, metrics domrepo.Metrics, cacheTTL time.Duration) *TickRecorder {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TickRecorder{cache: c, metrics: metrics, cacheTTL: cacheTTL}
}

func (r *TickRecorder) Process(ctx context.Context, t *models.Tick) error {
	r.metrics.RecordLastPrice(t.Symbol, t.Price)
	if r.cache == nil {
		return nil
	}
	return r.cache.Set(ctx, lastPriceKeyPrefix+t.Symbol, t.Price, r.cacheTTL)
}
