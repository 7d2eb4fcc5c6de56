package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/domain/repository"
)

// ClickHouseCandleStore persists candle history and serves scoring windows.
type ClickHouseCandleStore struct {
	db        *sql.DB
	table     string
	refSymbol string
}

// NewClickHouseCandleStore creates ClickHouse candle storage. refSymbol is
// the market reference asset used for correlation returns.
func NewClickHouseCandleStore(db *sql.DB, table, refSymbol string) *ClickHouseCandleStore {
	return &ClickHouseCandleStore{db: db, table: table, refSymbol: refSymbol}
}

var (
	_ repository.CandleStore     = (*ClickHouseCandleStore)(nil)
	_ repository.HistoryProvider = (*ClickHouseCandleStore)(nil)
)

func (s *ClickHouseCandleStore) StoreCandles(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips. Chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, c := range candles[start:end] {
			if c.Symbol == "" || c.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				c.Symbol,
				c.Timestamp,
				c.Open,
				c.High,
				c.Low,
				c.Close,
				c.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store candles: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error) {
	q := fmt.Sprintf("SELECT symbol, ts, open, high, low, close, volume FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetWindow returns the most recent minLookback candles, oldest first.
// LIMIT 1 BY ts drops duplicate rows the ReplacingMergeTree has not
// merged away yet.
func (s *ClickHouseCandleStore) GetWindow(ctx context.Context, symbol string, minLookback int) ([]models.Candle, error) {
	q := fmt.Sprintf("SELECT symbol, ts, open, high, low, close, volume FROM %s WHERE symbol = ? ORDER BY ts DESC LIMIT 1 BY ts LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, minLookback)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candles, err := scanCandles(rows)
	if err != nil {
		return nil, err
	}
	// Query returns newest first; scoring wants chronological order.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// GetReferenceReturns computes the reference asset's period-over-period
// percentage returns from its latest closes, oldest first.
func (s *ClickHouseCandleStore) GetReferenceReturns(ctx context.Context, lookback int) ([]float64, error) {
	// lookback returns need lookback+1 closes.
	q := fmt.Sprintf("SELECT close FROM %s WHERE symbol = ? ORDER BY ts DESC LIMIT 1 BY ts LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, s.refSymbol, lookback+1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		closes = append(closes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first; reverse then compute returns.
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}

	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (closes[i]-prev)/prev*100)
	}
	return returns, nil
}

func (s *ClickHouseCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanCandles(rows *sql.Rows) ([]models.Candle, error) {
	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Symbol, &c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
