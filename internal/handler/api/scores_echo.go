package api

import (
	"math"
	"time"

	models "CoinScout/internal/domain/models"
	"CoinScout/internal/scoring"
	"CoinScout/internal/usecase"
	xhttp "CoinScout/pkg/http"
	xlogger "CoinScout/pkg/logger"
	"CoinScout/pkg/util"

	"github.com/labstack/echo/v4"
)

// ScoresEchoHandler exposes the scoreboard and candle history over HTTP.
type ScoresEchoHandler struct {
	logger   *xlogger.Logger
	board    *usecase.ScoreboardUseCase
	interval string
}

// NewScoresEchoHandler creates the API handler. interval is the candle
// timeframe used to align requested time ranges.
func NewScoresEchoHandler(logger *xlogger.Logger, board *usecase.ScoreboardUseCase, interval string) *ScoresEchoHandler {
	return &ScoresEchoHandler{logger: logger, board: board, interval: interval}
}

func (h *ScoresEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/scores", h.Scores)
	g.GET("/scores/:symbol", h.SymbolScore)
	g.GET("/candles", h.Candles)
}

// ScoreView is the display shape of a breakdown: scores rounded to two
// decimals and the correlation annotated with its band. Stored values
// keep full precision; rounding happens only here.
type ScoreView struct {
	Symbol           string              `json:"symbol"`
	Timestamp        time.Time           `json:"timestamp"`
	Price            float64             `json:"price"`
	GrowthRates      map[string]*float64 `json:"growth_rates"`
	TechnicalScore   float64             `json:"technical_score"`
	GrowthScore      float64             `json:"growth_score"`
	ConsistencyScore *float64            `json:"consistency_score"`
	BTCCorrelation   *float64            `json:"btc_correlation"`
	CorrelationBand  string              `json:"correlation_band,omitempty"`
	DeadPeriods      int                 `json:"dead_period_count"`
	CompositeScore   float64             `json:"composite_score"`
	Signal           models.Signal       `json:"signal"`
}

type scoreboardView struct {
	Total int         `json:"total"`
	Rows  []ScoreView `json:"rows"`
}

func (h *ScoresEchoHandler) Scores(c echo.Context) error {
	req := &models.ScoreboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.board.GetScoreboard(c.Request().Context(), usecase.ScoreboardParams{
		Signal:   req.Signal,
		MinScore: req.MinScore,
		Limit:    req.Limit,
	})
	if err != nil {
		h.logger.Error("scoreboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	rows := make([]ScoreView, len(res.Breakdowns))
	for i, b := range res.Breakdowns {
		rows[i] = toScoreView(b)
	}
	return xhttp.SuccessResponse(c, &scoreboardView{Total: res.Total, Rows: rows})
}

func (h *ScoresEchoHandler) SymbolScore(c echo.Context) error {
	req := &models.SymbolScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	b, err := h.board.GetSymbol(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("symbol score usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if b == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no score for symbol %s", req.Symbol))
	}
	view := toScoreView(*b)
	return xhttp.SuccessResponse(c, &view)
}

func (h *ScoresEchoHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	if from.After(to) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("from %s is after to %s", from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}
	from, to = util.AlignFromTo(from, to, h.interval)

	res, err := h.board.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func toScoreView(b models.ScoreBreakdown) ScoreView {
	view := ScoreView{
		Symbol:         b.Symbol,
		Timestamp:      b.Timestamp,
		Price:          b.Price,
		GrowthRates:    make(map[string]*float64, len(b.GrowthRates)),
		TechnicalScore: round2(b.TechnicalScore),
		GrowthScore:    round2(b.GrowthScore),
		DeadPeriods:    b.DeadPeriods,
		CompositeScore: round2(b.CompositeScore),
		Signal:         b.Signal,
	}
	for label, rate := range b.GrowthRates {
		if rate == nil {
			view.GrowthRates[label] = nil
			continue
		}
		v := round2(*rate)
		view.GrowthRates[label] = &v
	}
	if b.ConsistencyScore != nil {
		v := round2(*b.ConsistencyScore)
		view.ConsistencyScore = &v
	}
	if b.BTCCorrelation != nil {
		v := round2(*b.BTCCorrelation)
		view.BTCCorrelation = &v
		view.CorrelationBand = scoring.CorrelationBand(*b.BTCCorrelation)
	}
	return view
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
