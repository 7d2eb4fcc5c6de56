package models

// Requests for the scoreboard HTTP endpoints. Defined in domain for consistency and reuse.

type ScoreboardRequest struct {
	Signal   string  `query:"signal" json:"signal" validate:"omitempty,oneof=STRONG_BUY BUY WEAK_BUY HOLD WEAK_SELL STRONG_SELL DEAD"`
	MinScore float64 `query:"min_score" json:"min_score" validate:"gte=-1000,lte=100"`
	Limit    int     `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type SymbolScoreRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}
