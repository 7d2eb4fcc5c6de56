package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"CoinScout/internal/domain/models"
	domrepo "CoinScout/internal/domain/repository"
)

// Table holds the per-symbol indicator profiles loaded once at startup
// from the frequency-weighted strategy analysis CSV. It is immutable
// after Load and safe for concurrent reads.
type Table struct {
	profiles map[string]models.IndicatorProfile
}

// NewTable returns an empty table; every lookup falls back to the
// default profile.
func NewTable() *Table {
	return &Table{profiles: make(map[string]models.IndicatorProfile)}
}

// Load reads a profile CSV with the columns
// symbol,timeframe,top_features,win_rate,sharpe_ratio,profitability_score.
// Only rows with a positive profitability score are kept; when a symbol
// appears with several timeframes the most profitable row wins.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read profiles header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"symbol", "top_features", "profitability_score"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("profiles csv: missing column %q", required)
		}
	}

	t := NewTable()
	best := make(map[string]float64)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read profiles row: %w", err)
		}

		symbol := strings.TrimSpace(rec[col["symbol"]])
		if symbol == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[col["profitability_score"]]), 64)
		if err != nil || score <= 0 {
			continue
		}
		if prev, ok := best[symbol]; ok && prev >= score {
			continue
		}

		entries := parseFeatures(rec[col["top_features"]])
		if len(entries) == 0 {
			continue
		}
		best[symbol] = score
		t.profiles[symbol] = models.IndicatorProfile{Symbol: symbol, Entries: entries}
	}
	return t, nil
}

// parseFeatures turns a comma-separated feature list into weighted
// entries ordered by decreasing weight.
func parseFeatures(raw string) []models.ProfileEntry {
	seen := make(map[string]bool)
	entries := make([]models.ProfileEntry, 0, 8)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, models.ProfileEntry{Indicator: name, Weight: weightFor(name)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	return entries
}

// GetIndicatorProfile returns the symbol's profile, or the uniform
// default profile when the table has none.
func (t *Table) GetIndicatorProfile(symbol string) models.IndicatorProfile {
	if p, ok := t.profiles[symbol]; ok {
		return p
	}
	return DefaultProfile(symbol)
}

// Len reports how many symbols carry a dedicated profile.
func (t *Table) Len() int { return len(t.profiles) }

var _ domrepo.ProfileProvider = (*Table)(nil)
