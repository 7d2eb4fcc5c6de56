package scoring

import (
	"math"
	"testing"
	"time"

	"CoinScout/internal/domain/models"
)

var testNow = time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)

// candleSeries builds an ascending window ending at testNow with one
// candle per step, closes taken from the given slice (oldest first).
func candleSeries(closes []float64, step time.Duration) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		ts := testNow.Add(-time.Duration(len(closes)-1-i) * step)
		out[i] = models.Candle{
			Symbol:    "TESTUSDT",
			Timestamp: ts,
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    100,
		}
	}
	return out
}

func TestComputeGrowthBasic(t *testing.T) {
	specs := []models.TimeframeSpec{
		{Label: "5m", Window: 5 * time.Minute},
		{Label: "15m", Window: 15 * time.Minute},
	}
	// One candle per 5 minutes: closes 100, 102, 105, 110 spanning 15m.
	window := candleSeries([]float64{100, 102, 105, 110}, 5*time.Minute)

	growth := ComputeGrowth(window, specs, testNow)

	g5 := growth["5m"]
	if g5 == nil {
		t.Fatalf("expected 5m growth")
	}
	want := (110.0 - 105.0) / 105.0 * 100
	if math.Abs(*g5-want) > 1e-9 {
		t.Fatalf("5m growth = %v, want %v", *g5, want)
	}

	g15 := growth["15m"]
	if g15 == nil {
		t.Fatalf("expected 15m growth")
	}
	want = (110.0 - 100.0) / 100.0 * 100
	if math.Abs(*g15-want) > 1e-9 {
		t.Fatalf("15m growth = %v, want %v", *g15, want)
	}
}

func TestComputeGrowthInsufficientHistory(t *testing.T) {
	specs := []models.TimeframeSpec{
		{Label: "5m", Window: 5 * time.Minute},
		{Label: "1h", Window: time.Hour},
	}
	// 15 minutes of history cannot cover the 1h window.
	window := candleSeries([]float64{100, 102, 105, 110}, 5*time.Minute)

	growth := ComputeGrowth(window, specs, testNow)

	if growth["5m"] == nil {
		t.Fatalf("expected 5m growth")
	}
	if growth["1h"] != nil {
		t.Fatalf("expected nil 1h growth, got %v", *growth["1h"])
	}
}

func TestComputeGrowthTooFewCandles(t *testing.T) {
	specs := []models.TimeframeSpec{{Label: "5m", Window: 5 * time.Minute}}
	window := candleSeries([]float64{100}, 5*time.Minute)

	growth := ComputeGrowth(window, specs, testNow)
	if growth["5m"] != nil {
		t.Fatalf("single candle must yield nil growth")
	}
	if len(growth) != 1 {
		t.Fatalf("vector must still carry every label, got %d", len(growth))
	}
}

func TestComputeGrowthZeroReferenceClose(t *testing.T) {
	specs := []models.TimeframeSpec{{Label: "15m", Window: 15 * time.Minute}}
	window := candleSeries([]float64{0, 102, 105, 110}, 5*time.Minute)

	growth := ComputeGrowth(window, specs, testNow)
	if growth["15m"] != nil {
		t.Fatalf("zero reference close must yield nil growth")
	}
}

func TestComputeGrowthNegative(t *testing.T) {
	specs := []models.TimeframeSpec{{Label: "5m", Window: 5 * time.Minute}}
	window := candleSeries([]float64{100, 110, 105, 99}, 5*time.Minute)

	growth := ComputeGrowth(window, specs, testNow)
	g := growth["5m"]
	if g == nil {
		t.Fatalf("expected growth")
	}
	if *g >= 0 {
		t.Fatalf("expected negative growth, got %v", *g)
	}
}

func TestComputeReturns(t *testing.T) {
	window := candleSeries([]float64{100, 110, 99, 99}, 5*time.Minute)

	got := ComputeReturns(window, 0)
	want := []float64{10, -10, 0}
	if len(got) != len(want) {
		t.Fatalf("returns len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("returns[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	last := ComputeReturns(window, 2)
	if len(last) != 2 || last[0] != -10 || last[1] != 0 {
		t.Fatalf("unexpected tail returns %v", last)
	}
}

func TestComputeReturnsSkipsZeroCloses(t *testing.T) {
	window := candleSeries([]float64{100, 0, 50}, 5*time.Minute)

	got := ComputeReturns(window, 0)
	// 100 -> 0 yields -100; 0 -> 50 is skipped (division by zero).
	if len(got) != 1 {
		t.Fatalf("expected one return, got %v", got)
	}
	if got[0] != -100 {
		t.Fatalf("unexpected return %v", got[0])
	}
}
