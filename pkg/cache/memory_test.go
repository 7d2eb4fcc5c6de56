package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGetString(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(context.Background(), "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if err := c.Get(context.Background(), "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q, want v", got)
	}
}

func TestMemoryCacheTypedValues(t *testing.T) {
	type row struct {
		Symbol string
		Score  float64
	}
	c := NewMemoryCache()
	defer c.Close()

	rows := []row{{Symbol: "BTCUSDT", Score: 80}, {Symbol: "ETHUSDT", Score: 60}}
	if err := c.Set(context.Background(), "rows", rows, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got []row
	if err := c.Get(context.Background(), "rows", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0].Symbol != "BTCUSDT" {
		t.Fatalf("got %v", got)
	}

	// Mismatched destination type reports an error instead of panicking.
	var wrong []string
	if err := c.Get(context.Background(), "rows", &wrong); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	var got string
	if err := c.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache(WithMemoryCleanup(5 * time.Millisecond))
	defer c.Close()

	if err := c.Set(context.Background(), "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var got string
	if err := c.Get(context.Background(), "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("err = %v, want ErrCacheMiss after expiry", err)
	}
}
