package profile

import (
	"strings"
	"testing"
)

const sampleCSV = `symbol,timeframe,top_features,win_rate,sharpe_ratio,profitability_score
BTCUSDT,5m,"atr_ratio, rsi, volume_ratio",0.58,1.42,0.73
BTCUSDT,15m,"macd, bb_width",0.52,1.10,0.41
ETHUSDT,5m,"returns_std_50, bb_position",0.55,1.18,0.61
LOSSUSDT,5m,"atr_ratio, rsi",0.30,-0.40,-0.25
ZEROUSDT,5m,"atr_ratio",0.50,0.00,0
`

func TestParseKeepsBestRowPerSymbol(t *testing.T) {
	table, err := parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 profiled symbols, got %d", table.Len())
	}

	p := table.GetIndicatorProfile("BTCUSDT")
	if p.Fallback {
		t.Fatalf("BTCUSDT must not use the fallback profile")
	}
	// The 5m row outscores the 15m row; its features win.
	names := make(map[string]bool, len(p.Entries))
	for _, e := range p.Entries {
		names[e.Indicator] = true
	}
	if !names["atr_ratio"] || names["macd"] {
		t.Fatalf("wrong row kept for BTCUSDT: %v", p.Entries)
	}
}

func TestParseDropsNonPositiveScores(t *testing.T) {
	table, err := parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p := table.GetIndicatorProfile("LOSSUSDT"); !p.Fallback {
		t.Fatalf("negative profitability must fall back")
	}
	if p := table.GetIndicatorProfile("ZEROUSDT"); !p.Fallback {
		t.Fatalf("zero profitability must fall back")
	}
}

func TestParseWeightsSortedDescending(t *testing.T) {
	table, err := parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := table.GetIndicatorProfile("BTCUSDT")
	for i := 1; i < len(p.Entries); i++ {
		if p.Entries[i].Weight > p.Entries[i-1].Weight {
			t.Fatalf("entries not sorted by weight: %v", p.Entries)
		}
	}
	// atr_ratio carries the highest frequency weight and must lead.
	if p.Entries[0].Indicator != "atr_ratio" {
		t.Fatalf("expected atr_ratio first, got %s", p.Entries[0].Indicator)
	}
}

func TestParseMissingColumn(t *testing.T) {
	_, err := parse(strings.NewReader("symbol,timeframe\nBTCUSDT,5m\n"))
	if err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestParseDeduplicatesFeatures(t *testing.T) {
	csv := "symbol,top_features,profitability_score\nAUSDT,\"rsi, rsi, macd\",0.5\n"
	table, err := parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := table.GetIndicatorProfile("AUSDT")
	if len(p.Entries) != 2 {
		t.Fatalf("expected deduplicated entries, got %v", p.Entries)
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile("UNKNOWNUSDT")
	if !p.Fallback {
		t.Fatalf("default profile must be marked fallback")
	}
	if len(p.Entries) != len(universalFeatures) {
		t.Fatalf("expected %d universal entries, got %d", len(universalFeatures), len(p.Entries))
	}
	for _, e := range p.Entries {
		if e.Weight != 1.0 {
			t.Fatalf("universal entries carry uniform weight, got %v", e.Weight)
		}
	}
}

func TestWeightForUnknownFeature(t *testing.T) {
	if got := weightFor("made_up_feature"); got != fallbackWeight {
		t.Fatalf("unknown feature weight = %v, want %v", got, fallbackWeight)
	}
}

func TestEmptyTableFallsBack(t *testing.T) {
	table := NewTable()
	p := table.GetIndicatorProfile("ANYUSDT")
	if !p.Fallback {
		t.Fatalf("empty table must serve fallback profiles")
	}
	if p.Symbol != "ANYUSDT" {
		t.Fatalf("fallback profile must carry the symbol, got %s", p.Symbol)
	}
}
