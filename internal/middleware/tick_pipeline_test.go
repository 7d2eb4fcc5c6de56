package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"CoinScout/internal/domain/models"
)

type countingProc struct {
	count int
	err   error
}

func (p *countingProc) Process(_ context.Context, _ *models.Tick) error {
	p.count++
	return p.err
}

type nopMetrics struct{}

func (nopMetrics) RecordCycle(_ int, _ float64)        {}
func (nopMetrics) RecordSignal(_ string)               {}
func (nopMetrics) RecordComposite(_ string, _ float64) {}
func (nopMetrics) RecordLastPrice(_ string, _ float64) {}
func (nopMetrics) RecordError(_ string)                {}

func tick(symbol string) *models.Tick {
	return &models.Tick{
		Symbol:    symbol,
		Timestamp: time.Now().UTC(),
		Price:     100,
		Volume:    10,
	}
}

func TestProcessRejectsInvalidTicks(t *testing.T) {
	proc := &countingProc{}
	p := NewTickPipeline(proc, nopMetrics{})

	cases := []*models.Tick{
		nil,
		{Timestamp: time.Now(), Price: 1},
		{Symbol: "BTCUSDT", Price: 1},
		{Symbol: "BTCUSDT", Timestamp: time.Now(), Price: -1},
	}
	for i, tc := range cases {
		if err := p.Process(context.Background(), tc); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if proc.count != 0 {
		t.Fatalf("downstream saw %d invalid ticks", proc.count)
	}
}

func TestProcessThrottlesPerSymbol(t *testing.T) {
	proc := &countingProc{}
	p := NewTickPipeline(proc, nopMetrics{}, WithMaxRPS(1))

	if err := p.Process(context.Background(), tick("BTCUSDT")); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	// Immediate repeat for the same symbol is dropped without error.
	if err := p.Process(context.Background(), tick("BTCUSDT")); err != nil {
		t.Fatalf("throttled tick: %v", err)
	}
	if err := p.Process(context.Background(), tick("ETHUSDT")); err != nil {
		t.Fatalf("other symbol: %v", err)
	}

	if proc.count != 2 {
		t.Fatalf("downstream saw %d ticks, want 2", proc.count)
	}
}

func TestProcessBuffersOnDownstreamError(t *testing.T) {
	proc := &countingProc{err: fmt.Errorf("recorder down")}
	p := NewTickPipeline(proc, nopMetrics{}, WithBufferSize(4))

	if err := p.Process(context.Background(), tick("BTCUSDT")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffered %d ticks, want 1", len(p.bufCh))
	}
}
