package repository

import (
	"context"
	"time"

	"CoinScout/internal/domain/models"
)

// HistoryProvider serves point-in-time candle windows to the scoring core.
// Windows are ascending by timestamp; gaps are tolerated as missing data.
type HistoryProvider interface {
	// GetWindow returns at most minLookback of the most recent candles
	// for the symbol, oldest first.
	GetWindow(ctx context.Context, symbol string, minLookback int) ([]models.Candle, error)
	// GetReferenceReturns returns the reference asset's most recent
	// period-over-period percentage returns, oldest first.
	GetReferenceReturns(ctx context.Context, lookback int) ([]float64, error)
}

// CandleStore persists candle history.
type CandleStore interface {
	StoreCandles(ctx context.Context, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error)
}

// ProfileProvider resolves the indicator profile for a symbol, falling
// back to a default profile when the symbol has no entry.
type ProfileProvider interface {
	GetIndicatorProfile(symbol string) models.IndicatorProfile
}

// ScoreStore persists score breakdowns and serves the latest snapshot.
type ScoreStore interface {
	StoreBreakdowns(ctx context.Context, breakdowns []models.ScoreBreakdown) error
	LatestBreakdowns(ctx context.Context) ([]models.ScoreBreakdown, error)
	LatestBreakdown(ctx context.Context, symbol string) (*models.ScoreBreakdown, error)
}

// ScorePublisher emits one breakdown event per symbol per cycle.
type ScorePublisher interface {
	PublishBreakdowns(ctx context.Context, breakdowns []models.ScoreBreakdown) error
	Close() error
}

// MarketStream is a live tick feed from the exchange.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Close() error
	IsConnected() bool
}

// Metrics records operational measurements for a scan cycle.
type Metrics interface {
	RecordCycle(symbols int, seconds float64)
	RecordSignal(signal string)
	RecordComposite(symbol string, score float64)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}
