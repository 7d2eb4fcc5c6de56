package models

import "time"

// Candle is one OHLCV record for a symbol. Candles are immutable once
// recorded; a symbol's history is chronological with unique timestamps.
type Candle struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Tick is a live price update from the exchange stream.
type Tick struct {
	Symbol    string
	Timestamp time.Time
	Price     float64
	Volume    float64
}
