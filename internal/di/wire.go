//go:build wireinject
// +build wireinject

package di

import (
	"CoinScout/pkg/config"
	"CoinScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideScorePublisher,
		ProvideBinanceClient,
		ProvideMarketStream,

		// Repositories
		ProvideCandleStores,
		ProvideHistoryProvider,
		ProvideCandleStore,
		ProvideScoreStore,
		ProvideProfileProvider,

		// Scoring core
		ProvideEngine,

		// Use cases
		ProvideSymbolSource,
		ProvideKlineSource,
		ProvideScanner,
		ProvideCandleSync,
		ProvideScoreboard,
		ProvideTickCollector,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
