package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/profile"
	"CoinScout/internal/scoring"
	"CoinScout/pkg/cache"
	applogger "CoinScout/pkg/logger"
)

type fakeSymbols struct {
	symbols []string
	err     error
}

func (f *fakeSymbols) Symbols(_ context.Context) ([]string, error) {
	return f.symbols, f.err
}

type fakeHistory struct {
	windows    map[string][]models.Candle
	windowErrs map[string]error
	refReturns []float64
	refErr     error
}

func (f *fakeHistory) GetWindow(_ context.Context, symbol string, _ int) ([]models.Candle, error) {
	if err := f.windowErrs[symbol]; err != nil {
		return nil, err
	}
	return f.windows[symbol], nil
}

func (f *fakeHistory) GetReferenceReturns(_ context.Context, _ int) ([]float64, error) {
	return f.refReturns, f.refErr
}

type fakeScoreStore struct {
	stored []models.ScoreBreakdown
}

func (f *fakeScoreStore) StoreBreakdowns(_ context.Context, breakdowns []models.ScoreBreakdown) error {
	f.stored = append([]models.ScoreBreakdown(nil), breakdowns...)
	return nil
}

func (f *fakeScoreStore) LatestBreakdowns(_ context.Context) ([]models.ScoreBreakdown, error) {
	return f.stored, nil
}

func (f *fakeScoreStore) LatestBreakdown(_ context.Context, symbol string) (*models.ScoreBreakdown, error) {
	for i := range f.stored {
		if f.stored[i].Symbol == symbol {
			return &f.stored[i], nil
		}
	}
	return nil, nil
}

type fakePublisher struct {
	published int
}

func (f *fakePublisher) PublishBreakdowns(_ context.Context, breakdowns []models.ScoreBreakdown) error {
	f.published += len(breakdowns)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu           sync.Mutex
	cycles       int
	cycleSymbols int
	signals      int
	lastPrices   int
	errors       map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: make(map[string]int)}
}

func (f *fakeMetrics) RecordCycle(symbols int, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cycles++
	f.cycleSymbols = symbols
}

func (f *fakeMetrics) RecordSignal(_ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals++
}

func (f *fakeMetrics) RecordComposite(_ string, _ float64) {}

func (f *fakeMetrics) RecordLastPrice(_ string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPrices++
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[kind]++
}

func (f *fakeMetrics) lastPriceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPrices
}

func (f *fakeMetrics) errorCount(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[kind]
}

func newTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

// scanWindow builds an ascending 5-minute candle window ending at now.
func scanWindow(symbol string, closes []float64, now time.Time) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Symbol:    symbol,
			Timestamp: now.Add(-time.Duration(len(closes)-1-i) * 5 * time.Minute),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    100,
		}
	}
	return out
}

func newTestScanner(t *testing.T, symbols *fakeSymbols, history *fakeHistory, store *fakeScoreStore, pub *fakePublisher, metrics *fakeMetrics) *Scanner {
	t.Helper()
	return NewScanner(
		symbols,
		history,
		profile.NewTable(),
		store,
		pub,
		cache.NewMemoryCache(),
		metrics,
		scoring.NewEngine(nil),
		newTestLogger(t),
		10,
		time.Minute,
	)
}

func TestRunCycleRanksAndPersists(t *testing.T) {
	now := time.Now().UTC()

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}

	symbols := &fakeSymbols{symbols: []string{"AAAUSDT", "ZZZUSDT"}}
	history := &fakeHistory{
		windows: map[string][]models.Candle{
			"ZZZUSDT": scanWindow("ZZZUSDT", rising, now),
			"AAAUSDT": scanWindow("AAAUSDT", flat, now),
		},
		refReturns: []float64{1, -1, 2, -2, 1, 0.5, -0.5, 2, 1, -1},
	}
	store := &fakeScoreStore{}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()

	s := newTestScanner(t, symbols, history, store, pub, metrics)
	if err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(store.stored) != 2 {
		t.Fatalf("stored %d breakdowns, want 2", len(store.stored))
	}
	// The rising symbol outranks the dead one regardless of name order.
	if store.stored[0].Symbol != "ZZZUSDT" || store.stored[1].Symbol != "AAAUSDT" {
		t.Fatalf("ranking = [%s, %s], want [ZZZUSDT, AAAUSDT]",
			store.stored[0].Symbol, store.stored[1].Symbol)
	}

	riser, dead := store.stored[0], store.stored[1]
	if dead.Signal != models.SignalDead {
		t.Errorf("flat symbol signal = %s, want %s", dead.Signal, models.SignalDead)
	}
	if dead.DeadPeriods != 4 {
		t.Errorf("flat symbol dead periods = %d, want 4", dead.DeadPeriods)
	}
	if riser.DeadPeriods != 0 {
		t.Errorf("rising symbol dead periods = %d, want 0", riser.DeadPeriods)
	}
	if riser.BTCCorrelation == nil {
		t.Errorf("rising symbol correlation = nil, want a value")
	}
	// Flat returns have zero variance, so correlation is undefined.
	if dead.BTCCorrelation != nil {
		t.Errorf("flat symbol correlation = %v, want nil", *dead.BTCCorrelation)
	}

	if pub.published != 2 {
		t.Errorf("published %d breakdowns, want 2", pub.published)
	}
	if metrics.cycles != 1 || metrics.cycleSymbols != 2 {
		t.Errorf("cycle metrics = (%d, %d), want (1, 2)", metrics.cycles, metrics.cycleSymbols)
	}
	if metrics.signals != 2 {
		t.Errorf("signals recorded = %d, want 2", metrics.signals)
	}
	if len(metrics.errors) != 0 {
		t.Errorf("errors recorded = %v, want none", metrics.errors)
	}

	var cached []models.ScoreBreakdown
	if err := s.cache.Get(context.Background(), ScoreboardCacheKey, &cached); err != nil {
		t.Fatalf("scoreboard cache: %v", err)
	}
	if len(cached) != 2 || cached[0].Symbol != "ZZZUSDT" {
		t.Fatalf("cached scoreboard = %v, want ranked pair", cached)
	}
}

func TestRunCycleSkipsUnusableSymbols(t *testing.T) {
	now := time.Now().UTC()

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	symbols := &fakeSymbols{symbols: []string{"GOODUSDT", "EMPTYUSDT", "BADUSDT"}}
	history := &fakeHistory{
		windows: map[string][]models.Candle{
			"GOODUSDT": scanWindow("GOODUSDT", closes, now),
		},
		windowErrs: map[string]error{
			"BADUSDT": fmt.Errorf("connection refused"),
		},
	}
	store := &fakeScoreStore{}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()

	s := newTestScanner(t, symbols, history, store, pub, metrics)
	if err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(store.stored) != 1 || store.stored[0].Symbol != "GOODUSDT" {
		t.Fatalf("stored = %v, want only GOODUSDT", store.stored)
	}
	if metrics.errors["score_symbol"] != 1 {
		t.Errorf("score_symbol errors = %d, want 1", metrics.errors["score_symbol"])
	}
}

func TestRunCycleContinuesWithoutReference(t *testing.T) {
	now := time.Now().UTC()

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	symbols := &fakeSymbols{symbols: []string{"GOODUSDT"}}
	history := &fakeHistory{
		windows: map[string][]models.Candle{
			"GOODUSDT": scanWindow("GOODUSDT", closes, now),
		},
		refErr: fmt.Errorf("reference history unavailable"),
	}
	store := &fakeScoreStore{}
	metrics := newFakeMetrics()

	s := newTestScanner(t, symbols, history, store, &fakePublisher{}, metrics)
	if err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(store.stored) != 1 {
		t.Fatalf("stored %d breakdowns, want 1", len(store.stored))
	}
	if store.stored[0].BTCCorrelation != nil {
		t.Errorf("correlation = %v, want nil without reference returns", *store.stored[0].BTCCorrelation)
	}
	if metrics.errors["reference_returns"] != 1 {
		t.Errorf("reference_returns errors = %d, want 1", metrics.errors["reference_returns"])
	}
}

func TestRunCycleFailsWhenSymbolsUnavailable(t *testing.T) {
	symbols := &fakeSymbols{err: fmt.Errorf("exchange down")}
	metrics := newFakeMetrics()

	s := newTestScanner(t, symbols, &fakeHistory{}, &fakeScoreStore{}, &fakePublisher{}, metrics)
	if err := s.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected error when symbol listing fails")
	}
	if metrics.errors["symbols"] != 1 {
		t.Errorf("symbols errors = %d, want 1", metrics.errors["symbols"])
	}
}

func TestRunCycleSkipsWhenAnotherCycleHoldsLock(t *testing.T) {
	ctx := context.Background()
	symbols := &fakeSymbols{symbols: []string{"AUSDT"}}
	history := &fakeHistory{}
	store := &fakeScoreStore{}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	c := cache.NewMemoryCache()

	if ok, err := c.TryLock(ctx, cycleLockKey, time.Minute); err != nil || !ok {
		t.Fatalf("seed lock: ok=%v err=%v", ok, err)
	}

	s := NewScanner(symbols, history, profile.NewTable(), store, pub, c, metrics,
		scoring.NewEngine(nil), newTestLogger(t), 10, time.Minute)

	if err := s.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(store.stored) != 0 {
		t.Errorf("stored %d breakdowns while locked, want 0", len(store.stored))
	}
	if metrics.cycles != 0 {
		t.Errorf("cycle recorded while another holds the lock")
	}

	// A finished cycle must leave the lock free for the next one.
	if err := c.Unlock(ctx, cycleLockKey); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := s.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle after unlock: %v", err)
	}
	if ok, err := c.TryLock(ctx, cycleLockKey, time.Minute); err != nil || !ok {
		t.Errorf("lock still held after the cycle finished: ok=%v err=%v", ok, err)
	}
}
