package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"CoinScout/internal/domain/models"
	"CoinScout/pkg/cache"
)

// faultyStream fails its first read session and serves ticks on the next,
// so the collector has to go through a full reconnect.
type faultyStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
	connected  bool
}

func (f *faultyStream) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *faultyStream) Subscribe(_ context.Context) error { return nil }

func (f *faultyStream) Read(_ context.Context) (<-chan *models.Tick, <-chan error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	ticks := make(chan *models.Tick, 4)
	errs := make(chan error, 1)
	if f.reads == 1 {
		errs <- fmt.Errorf("read: connection reset")
		close(errs)
		close(ticks)
		return ticks, errs
	}
	ticks <- &models.Tick{
		Symbol:    "BTCUSDT",
		Timestamp: time.Now().UTC(),
		Price:     43000,
		Volume:    12,
	}
	return ticks, errs
}

func (f *faultyStream) Reconnect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}

func (f *faultyStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *faultyStream) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *faultyStream) counts() (reads, reconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads, f.reconnects
}

func TestCollectorResumesAfterStreamFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &faultyStream{}
	metrics := newFakeMetrics()
	rec := NewTickRecorder(cache.NewMemoryCache(), metrics, time.Minute)
	collector := NewTickCollector(stream, rec, metrics, nil)

	if err := collector.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for metrics.lastPriceCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if metrics.lastPriceCount() == 0 {
		t.Fatalf("no ticks processed after reconnect")
	}

	reads, reconnects := stream.counts()
	if reconnects != 1 {
		t.Errorf("reconnects = %d, want 1", reconnects)
	}
	if reads != 2 {
		t.Errorf("read sessions = %d, want 2", reads)
	}
	if got := metrics.errorCount("stream"); got != 1 {
		t.Errorf("stream errors = %d, want 1", got)
	}

	if err := collector.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if collector.IsConnected() {
		t.Errorf("collector still reports connected after shutdown")
	}
}
