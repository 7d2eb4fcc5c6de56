package indicators

import (
	"math"
	"testing"
	"time"

	"CoinScout/internal/domain/models"
)

func testWindow(n int, close func(i int) float64) []models.Candle {
	base := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		c := close(i)
		out[i] = models.Candle{
			Symbol:    "TESTUSDT",
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      c * 0.99,
			High:      c * 1.01,
			Low:       c * 0.98,
			Close:     c,
			Volume:    1000 + float64(i),
		}
	}
	return out
}

func profileOf(names ...string) models.IndicatorProfile {
	entries := make([]models.ProfileEntry, len(names))
	for i, n := range names {
		entries[i] = models.ProfileEntry{Indicator: n, Weight: 1}
	}
	return models.IndicatorProfile{Symbol: "TESTUSDT", Entries: entries}
}

func TestComputeCoversRequestedIndicators(t *testing.T) {
	window := testWindow(60, func(i int) float64 { return 100 + float64(i%7) })
	profile := profileOf(
		"atr_ratio", "returns", "returns_std_50", "rsi", "rsi_7",
		"macd", "macd_signal", "macd_hist", "bb_width", "bb_position",
		"volume_ratio", "high_low_ratio", "close_open_ratio",
		"price_sma7_ratio", "sma7_sma25_ratio",
	)

	values := Compute(window, profile)

	for _, entry := range profile.Entries {
		if _, ok := values[entry.Indicator]; !ok {
			t.Errorf("missing indicator %s", entry.Indicator)
		}
	}
}

func TestComputeOmitsWhenHistoryTooShort(t *testing.T) {
	window := testWindow(10, func(i int) float64 { return 100 + float64(i) })
	values := Compute(window, profileOf("returns_std_50", "macd", "returns"))

	if _, ok := values["returns_std_50"]; ok {
		t.Fatalf("returns_std_50 needs 50 returns, must be omitted")
	}
	if _, ok := values["macd"]; ok {
		t.Fatalf("macd needs 26 closes, must be omitted")
	}
	if _, ok := values["returns"]; !ok {
		t.Fatalf("returns computable from 10 candles")
	}
}

func TestComputeSkipsUnknownNames(t *testing.T) {
	window := testWindow(30, func(i int) float64 { return 100 })
	values := Compute(window, profileOf("totally_made_up", "close_open_ratio"))

	if _, ok := values["totally_made_up"]; ok {
		t.Fatalf("unknown indicator must be skipped")
	}
	if _, ok := values["close_open_ratio"]; !ok {
		t.Fatalf("known indicator must still compute")
	}
}

func TestComputeEmptyWindow(t *testing.T) {
	values := Compute(nil, profileOf("rsi"))
	if len(values) != 0 {
		t.Fatalf("empty window must yield no values, got %v", values)
	}
}

func TestRSIExtremes(t *testing.T) {
	// Strictly rising closes: no losses, RSI pegs at 100.
	rising := testWindow(20, func(i int) float64 { return 100 + float64(i) })
	values := Compute(rising, profileOf("rsi"))
	if v := values["rsi"]; math.Abs(v-100) > 1e-9 {
		t.Fatalf("rsi of strictly rising series = %v, want 100", v)
	}

	// Strictly falling closes: no gains, RSI approaches 0.
	falling := testWindow(20, func(i int) float64 { return 100 - float64(i) })
	values = Compute(falling, profileOf("rsi"))
	if v := values["rsi"]; v > 1e-9 {
		t.Fatalf("rsi of strictly falling series = %v, want 0", v)
	}
}

func TestReturnsMatchesLastChange(t *testing.T) {
	window := testWindow(5, func(i int) float64 {
		return []float64{100, 100, 100, 100, 110}[i]
	})
	values := Compute(window, profileOf("returns"))
	if v := values["returns"]; math.Abs(v-0.1) > 1e-9 {
		t.Fatalf("returns = %v, want 0.1", v)
	}
}

func TestVolumeRatio(t *testing.T) {
	// Constant volume except the latest doubles.
	window := testWindow(25, func(i int) float64 { return 100 })
	for i := range window {
		window[i].Volume = 1000
	}
	window[len(window)-1].Volume = 2000

	values := Compute(window, profileOf("volume_ratio"))
	v, ok := values["volume_ratio"]
	if !ok {
		t.Fatalf("expected volume_ratio")
	}
	// Mean over 20 includes the doubled candle: (19*1000+2000)/20 = 1050.
	want := 2000.0 / 1050.0
	if math.Abs(v-want) > 1e-9 {
		t.Fatalf("volume_ratio = %v, want %v", v, want)
	}
}

func TestBollingerPositionWithinBands(t *testing.T) {
	window := testWindow(30, func(i int) float64 { return 100 + 3*math.Sin(float64(i)) })
	values := Compute(window, profileOf("bb_position", "bb_width"))

	pos, ok := values["bb_position"]
	if !ok {
		t.Fatalf("expected bb_position")
	}
	if pos < -0.5 || pos > 1.5 {
		t.Fatalf("bb_position out of plausible range: %v", pos)
	}
	if w := values["bb_width"]; w <= 0 {
		t.Fatalf("bb_width must be positive, got %v", w)
	}
}

func TestMACDSharedAcrossLookups(t *testing.T) {
	window := testWindow(60, func(i int) float64 { return 100 + float64(i%9) })
	values := Compute(window, profileOf("macd", "macd_signal", "macd_hist"))

	line, ok := values["macd"]
	if !ok {
		t.Fatalf("expected macd")
	}
	sig, ok := values["macd_signal"]
	if !ok {
		t.Fatalf("expected macd_signal")
	}
	hist, ok := values["macd_hist"]
	if !ok {
		t.Fatalf("expected macd_hist")
	}
	if math.Abs(hist-(line-sig)) > 1e-12 {
		t.Fatalf("macd_hist = %v, want line-signal = %v", hist, line-sig)
	}

	// Second and third lookups come from the cached pair: mutating the
	// closes after the first call must not change the result.
	s := newSeries(window)
	l1, s1, ok := s.macd()
	if !ok {
		t.Fatalf("expected macd to compute")
	}
	for i := range s.closes {
		s.closes[i] = 0
	}
	l2, s2, ok := s.macd()
	if !ok || l1 != l2 || s1 != s2 {
		t.Fatalf("macd recomputed: (%v,%v) then (%v,%v)", l1, s1, l2, s2)
	}
}
