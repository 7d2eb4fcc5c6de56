package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/domain/repository"
)

// ClickHouseScoreStore persists score breakdowns and serves the latest
// snapshot per symbol.
type ClickHouseScoreStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseScoreStore creates ClickHouse score storage.
func NewClickHouseScoreStore(db *sql.DB, table string) *ClickHouseScoreStore {
	return &ClickHouseScoreStore{db: db, table: table}
}

var _ repository.ScoreStore = (*ClickHouseScoreStore)(nil)

func (s *ClickHouseScoreStore) StoreBreakdowns(ctx context.Context, breakdowns []models.ScoreBreakdown) error {
	if len(breakdowns) == 0 {
		return nil
	}

	values := make([]string, 0, len(breakdowns))
	args := make([]interface{}, 0, len(breakdowns)*11)
	for _, b := range breakdowns {
		if b.Symbol == "" {
			continue
		}
		growth, err := json.Marshal(b.GrowthRates)
		if err != nil {
			return fmt.Errorf("marshal growth rates: %w", err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			b.Symbol,
			b.Timestamp,
			b.Price,
			string(growth),
			b.TechnicalScore,
			b.GrowthScore,
			b.ConsistencyScore,
			b.BTCCorrelation,
			uint32(b.DeadPeriods),
			b.CompositeScore,
			string(b.Signal),
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (symbol, ts, price, growth_rates, technical_score, growth_score, consistency_score, btc_correlation, dead_periods, composite_score, signal) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store breakdowns: %w", err)
	}
	return nil
}

// LatestBreakdowns returns the most recent breakdown per symbol, ordered
// by composite score descending with symbol as tiebreaker.
func (s *ClickHouseScoreStore) LatestBreakdowns(ctx context.Context) ([]models.ScoreBreakdown, error) {
	q := fmt.Sprintf("SELECT symbol, ts, price, growth_rates, technical_score, growth_score, consistency_score, btc_correlation, dead_periods, composite_score, signal FROM %s ORDER BY ts DESC LIMIT 1 BY symbol", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdowns, err := scanBreakdowns(rows)
	if err != nil {
		return nil, err
	}
	sortBreakdowns(breakdowns)
	return breakdowns, nil
}

func (s *ClickHouseScoreStore) LatestBreakdown(ctx context.Context, symbol string) (*models.ScoreBreakdown, error) {
	q := fmt.Sprintf("SELECT symbol, ts, price, growth_rates, technical_score, growth_score, consistency_score, btc_correlation, dead_periods, composite_score, signal FROM %s WHERE symbol = ? ORDER BY ts DESC LIMIT 1", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdowns, err := scanBreakdowns(rows)
	if err != nil {
		return nil, err
	}
	if len(breakdowns) == 0 {
		return nil, nil
	}
	return &breakdowns[0], nil
}

func scanBreakdowns(rows *sql.Rows) ([]models.ScoreBreakdown, error) {
	var breakdowns []models.ScoreBreakdown
	for rows.Next() {
		var (
			b      models.ScoreBreakdown
			growth string
			cons   sql.NullFloat64
			corr   sql.NullFloat64
			dead   uint32
			signal string
		)
		if err := rows.Scan(&b.Symbol, &b.Timestamp, &b.Price, &growth, &b.TechnicalScore, &b.GrowthScore, &cons, &corr, &dead, &b.CompositeScore, &signal); err != nil {
			return nil, err
		}
		if growth != "" {
			if err := json.Unmarshal([]byte(growth), &b.GrowthRates); err != nil {
				return nil, fmt.Errorf("unmarshal growth rates: %w", err)
			}
		}
		if cons.Valid {
			v := cons.Float64
			b.ConsistencyScore = &v
		}
		if corr.Valid {
			v := corr.Float64
			b.BTCCorrelation = &v
		}
		b.DeadPeriods = int(dead)
		b.Signal = models.Signal(signal)
		breakdowns = append(breakdowns, b)
	}
	return breakdowns, rows.Err()
}

func sortBreakdowns(breakdowns []models.ScoreBreakdown) {
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].CompositeScore != breakdowns[j].CompositeScore {
			return breakdowns[i].CompositeScore > breakdowns[j].CompositeScore
		}
		return breakdowns[i].Symbol < breakdowns[j].Symbol
	})
}
