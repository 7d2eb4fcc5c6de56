package usecase

import (
	"context"
	"fmt"

	"CoinScout/internal/domain/models"
	domrepo "CoinScout/internal/domain/repository"
	applogger "CoinScout/pkg/logger"
)

// KlineSource fetches recent candle history for a symbol.
type KlineSource interface {
	Klines(ctx context.Context, symbol string) ([]models.Candle, error)
}

// CandleSync pulls recent klines for the tradable universe into the
// candle store ahead of a scan cycle.
type CandleSync struct {
	symbols SymbolSource
	klines  KlineSource
	store   domrepo.CandleStore
	metrics domrepo.Metrics
	log     *applogger.Logger
}

// NewCandleSync creates a candle sync use case.
func NewCandleSync(symbols SymbolSource, klines KlineSource, store domrepo.CandleStore, metrics domrepo.Metrics, log *applogger.Logger) *CandleSync {
	return &CandleSync{symbols: symbols, klines: klines, store: store, metrics: metrics, log: log}
}

// Sync fetches and stores klines for every symbol in the universe.
// Per-symbol fetch failures are logged and skipped.
func (s *CandleSync) Sync(ctx context.Context) error {
	symbols, err := s.symbols.Symbols(ctx)
	if err != nil {
		s.metrics.RecordError("symbols")
		return fmt.Errorf("list symbols: %w", err)
	}

	var synced int
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		candles, err := s.klines.Klines(ctx, symbol)
		if err != nil {
			s.metrics.RecordError("klines")
			s.log.Debug("klines fetch failed", applogger.String("symbol", symbol), applogger.Error(err))
			continue
		}
		if len(candles) == 0 {
			continue
		}
		if err := s.store.StoreCandles(ctx, candles); err != nil {
			s.metrics.RecordError("store_candles")
			s.log.Error("store candles", applogger.String("symbol", symbol), applogger.Error(err))
			continue
		}
		synced++
	}

	s.log.Info("candle sync complete", applogger.Int("symbols", synced))
	return nil
}
