package binance

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/service/ratelimit"
	xhttp "CoinScout/pkg/http"
)

const restLimiterKey = "binance-rest"

// ClientOption configures Client.
type ClientOption func(*Client)

// Client is a Binance spot REST client scoped to the endpoints the
// scanner needs: the tradable universe and kline history.
type Client struct {
	httpc   *xhttp.Client
	limiter *ratelimit.Limiter

	baseURL        string
	quoteAssets    map[string]bool
	priceMin       float64
	priceMax       float64
	klineInterval  string
	klineLimit     int
	maxSymbols     int
	requestsPerSec float64
	symbolCacheTTL time.Duration

	mu        sync.Mutex
	symbols   []string
	fetchedAt time.Time
}

// NewClient creates a Binance REST client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpc:          xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		limiter:        ratelimit.New(),
		baseURL:        baseURL,
		quoteAssets:    map[string]bool{"USDT": true},
		priceMin:       0,
		priceMax:       0,
		klineInterval:  "5m",
		klineLimit:     100,
		maxSymbols:     0,
		requestsPerSec: 10,
		symbolCacheTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithQuoteAssets restricts the universe to pairs quoted in the given assets.
func WithQuoteAssets(assets []string) ClientOption {
	return func(c *Client) {
		c.quoteAssets = make(map[string]bool, len(assets))
		for _, a := range assets {
			c.quoteAssets[a] = true
		}
	}
}

// WithPriceRange filters symbols by their last price. Zero bounds disable
// the corresponding side.
func WithPriceRange(min, max float64) ClientOption {
	return func(c *Client) {
		c.priceMin = min
		c.priceMax = max
	}
}

// WithKlines sets the interval and number of candles fetched per symbol.
func WithKlines(interval string, limit int) ClientOption {
	return func(c *Client) {
		c.klineInterval = interval
		c.klineLimit = limit
	}
}

// WithMaxSymbols caps the universe size. Zero means unlimited.
func WithMaxSymbols(n int) ClientOption {
	return func(c *Client) {
		c.maxSymbols = n
	}
}

// WithRequestsPerSec sets the REST rate limit.
func WithRequestsPerSec(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.requestsPerSec = rps
		}
	}
}

// WithSymbolCacheTTL sets how long the tradable universe is cached.
func WithSymbolCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl > 0 {
			c.symbolCacheTTL = ttl
		}
	}
}

type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		QuoteAsset string `json:"quoteAsset"`
	} `json:"symbols"`
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Symbols returns the tradable universe: TRADING pairs in the configured
// quote assets whose last price falls in the configured range. The result
// is cached for symbolCacheTTL.
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if len(c.symbols) > 0 && time.Since(c.fetchedAt) < c.symbolCacheTTL {
		cached := make([]string, len(c.symbols))
		copy(cached, c.symbols)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var info exchangeInfoResponse
	if err := c.get(ctx, "/api/v3/exchangeInfo", nil, &info); err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	tradable := make(map[string]bool)
	for _, s := range info.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		if !c.quoteAssets[s.QuoteAsset] {
			continue
		}
		tradable[s.Symbol] = true
	}

	var tickers []tickerPrice
	if err := c.get(ctx, "/api/v3/ticker/price", nil, &tickers); err != nil {
		return nil, fmt.Errorf("ticker prices: %w", err)
	}

	symbols := make([]string, 0, len(tradable))
	for _, t := range tickers {
		if !tradable[t.Symbol] {
			continue
		}
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		if c.priceMin > 0 && price < c.priceMin {
			continue
		}
		if c.priceMax > 0 && price > c.priceMax {
			continue
		}
		symbols = append(symbols, t.Symbol)
	}
	sort.Strings(symbols)
	if c.maxSymbols > 0 && len(symbols) > c.maxSymbols {
		symbols = symbols[:c.maxSymbols]
	}

	c.mu.Lock()
	c.symbols = symbols
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	cached := make([]string, len(symbols))
	copy(cached, symbols)
	return cached, nil
}

// Klines fetches the most recent candles for a symbol using the client's
// configured interval and limit, oldest first.
func (c *Client) Klines(ctx context.Context, symbol string) ([]models.Candle, error) {
	var raw [][]interface{}
	params := map[string][]string{
		"symbol":   {symbol},
		"interval": {c.klineInterval},
		"limit":    {strconv.Itoa(c.klineLimit)},
	}
	if err := c.get(ctx, "/api/v3/klines", params, &raw); err != nil {
		return nil, fmt.Errorf("klines %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, k := range raw {
		// [openTime, open, high, low, close, volume, closeTime, ...]
		if len(k) < 6 {
			continue
		}
		openTime, ok := k[0].(float64)
		if !ok {
			continue
		}
		candle := models.Candle{
			Symbol:    symbol,
			Timestamp: time.UnixMilli(int64(openTime)).UTC(),
		}
		var err error
		if candle.Open, err = klineField(k[1]); err != nil {
			continue
		}
		if candle.High, err = klineField(k[2]); err != nil {
			continue
		}
		if candle.Low, err = klineField(k[3]); err != nil {
			continue
		}
		if candle.Close, err = klineField(k[4]); err != nil {
			continue
		}
		if candle.Volume, err = klineField(k[5]); err != nil {
			continue
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func klineField(v interface{}) (float64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseFloat(t, 64)
	case float64:
		return t, nil
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
}

// wait blocks until the rate limiter grants a token or ctx is done.
func (c *Client) wait(ctx context.Context) error {
	for {
		if c.limiter.Allow(restLimiterKey, c.requestsPerSec, c.requestsPerSec) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
