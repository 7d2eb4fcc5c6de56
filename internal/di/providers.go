package di

import (
	"context"
	"fmt"
	"time"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/domain/repository"
	"CoinScout/internal/handler/api"
	mid "CoinScout/internal/middleware"
	"CoinScout/internal/profile"
	internalrepo "CoinScout/internal/repository"
	"CoinScout/internal/scoring"
	"CoinScout/internal/service/binance"
	"CoinScout/internal/usecase"
	"CoinScout/pkg/cache"
	pkgch "CoinScout/pkg/clickhouse"
	"CoinScout/pkg/config"
	xhttp "CoinScout/pkg/http"
	pkgkafka "CoinScout/pkg/kafka"
	applogger "CoinScout/pkg/logger"
	"CoinScout/pkg/metrics"
	"CoinScout/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  level,
		Format: format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.candles (symbol String, ts DateTime, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, ts)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.scores (symbol String, ts DateTime, price Float64, growth_rates String, technical_score Float64, growth_score Float64, consistency_score Nullable(Float64), btc_correlation Nullable(Float64), dead_periods UInt32, composite_score Float64, signal String) ENGINE=MergeTree ORDER BY (symbol, ts)", db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the scoreboard cache: a memory-over-Redis layered
// cache when Redis is enabled, an in-process cache otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix("coinscout"),
	)
	if err != nil {
		return nil, err
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(4096)), nil
}

// ProvideScorePublisher creates the Kafka publisher, or a no-op when
// Kafka is disabled.
func ProvideScorePublisher(cfg *config.Config) (repository.ScorePublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopScorePublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaScorePublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideBinanceClient creates the Binance REST client.
func ProvideBinanceClient(cfg *config.Config) *binance.Client {
	return binance.NewClient(cfg.Binance.RESTURL,
		binance.WithQuoteAssets(cfg.Binance.QuoteAssets),
		binance.WithPriceRange(cfg.Binance.PriceMin, cfg.Binance.PriceMax),
		binance.WithKlines(cfg.Binance.KlineInterval, cfg.Binance.KlineLimit),
		binance.WithMaxSymbols(cfg.Binance.MaxSymbols),
		binance.WithRequestsPerSec(cfg.Binance.RequestsPerSec),
		binance.WithSymbolCacheTTL(cfg.Binance.SymbolCacheTTL),
	)
}

// ProvideSymbolSource exposes the Binance client as the symbol universe.
func ProvideSymbolSource(c *binance.Client) usecase.SymbolSource { return c }

// ProvideKlineSource exposes the Binance client as the kline source.
func ProvideKlineSource(c *binance.Client) usecase.KlineSource { return c }

// ProvideMarketStream creates the Binance WebSocket stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return binance.NewStream(
		cfg.Binance.WebSocketURL,
		cfg.Binance.ReconnectDelay,
		cfg.Binance.PingInterval,
	)
}

// ProvideProfileProvider loads the backtest profile table, or an empty
// table (all symbols use the fallback profile) when no path is set.
func ProvideProfileProvider(cfg *config.Config) (repository.ProfileProvider, error) {
	if cfg.Profiles.Path == "" {
		return profile.NewTable(), nil
	}
	table, err := profile.Load(cfg.Profiles.Path)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return table, nil
}

// ProvideEngine builds the scoring engine over the configured timeframes.
func ProvideEngine(cfg *config.Config) *scoring.Engine {
	specs := make([]models.TimeframeSpec, 0, len(cfg.Scoring.Timeframes))
	for _, tf := range cfg.Scoring.Timeframes {
		specs = append(specs, models.TimeframeSpec{
			Label:       tf.Label,
			Window:      tf.Window,
			MinGrowth:   tf.MinGrowth,
			ZeroPenalty: tf.ZeroPenalty,
		})
	}
	return scoring.NewEngine(specs)
}

// ProvideCandleStores creates ClickHouse candle storage.
func ProvideCandleStores(chClient *pkgch.Client, cfg *config.Config) *internalrepo.ClickHouseCandleStore {
	return internalrepo.NewClickHouseCandleStore(chClient.DB(), cfg.ClickHouse.Database+".candles", cfg.Scan.ReferenceSymbol)
}

// ProvideHistoryProvider exposes candle storage as the scoring window source.
func ProvideHistoryProvider(s *internalrepo.ClickHouseCandleStore) repository.HistoryProvider {
	return s
}

// ProvideCandleStore exposes candle storage for writes and range reads.
func ProvideCandleStore(s *internalrepo.ClickHouseCandleStore) repository.CandleStore {
	return s
}

// ProvideScoreStore creates ClickHouse score storage.
func ProvideScoreStore(chClient *pkgch.Client, cfg *config.Config) repository.ScoreStore {
	return internalrepo.NewClickHouseScoreStore(chClient.DB(), cfg.ClickHouse.Database+".scores")
}

// ProvideScanner creates the scan cycle use case.
func ProvideScanner(
	symbols usecase.SymbolSource,
	history repository.HistoryProvider,
	profiles repository.ProfileProvider,
	scores repository.ScoreStore,
	pub repository.ScorePublisher,
	c cache.Service,
	m repository.Metrics,
	engine *scoring.Engine,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	return usecase.NewScanner(symbols, history, profiles, scores, pub, c, m, engine, logger,
		cfg.Scan.CorrelationLookback, cfg.Scan.CacheTTL)
}

// ProvideCandleSync creates the candle sync use case.
func ProvideCandleSync(
	symbols usecase.SymbolSource,
	klines usecase.KlineSource,
	store repository.CandleStore,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.CandleSync {
	return usecase.NewCandleSync(symbols, klines, store, m, logger)
}

// ProvideScoreboard creates the read-side use case for the API.
func ProvideScoreboard(scores repository.ScoreStore, candles repository.CandleStore, c cache.Service) *usecase.ScoreboardUseCase {
	return usecase.NewScoreboardUseCase(scores, candles, c)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(cfg *config.Config, logger *applogger.Logger, board *usecase.ScoreboardUseCase) xhttp.Handler {
	return api.NewScoresEchoHandler(logger, board, cfg.Binance.KlineInterval)
}

// ProvideTickCollector creates the live tick collector with its pipeline.
func ProvideTickCollector(
	stream repository.MarketStream,
	c cache.Service,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickCollector {
	rec := usecase.NewTickRecorder(c, m, cfg.Scan.CacheTTL)
	pipe := mid.NewTickPipeline(rec, m,
		mid.WithMaxRPS(2),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, rec, m, pipe)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	scanner *usecase.Scanner,
	sync *usecase.CandleSync,
	collector *usecase.TickCollector,
	pub repository.ScorePublisher,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	app := server.New(cfg, logger, scanner, sync, collector, chClient, handler)
	app.Closer = pub.Close
	return app
}
