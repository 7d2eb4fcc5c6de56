package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"CoinScout/internal/usecase"
	pkgch "CoinScout/pkg/clickhouse"
	"CoinScout/pkg/config"
	xhttp "CoinScout/pkg/http"
	applogger "CoinScout/pkg/logger"

	"github.com/robfig/cron/v3"
)

// App encapsulates the entire application lifecycle: the periodic scan
// schedule, the live tick feed, and the HTTP API.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	scanner     *usecase.Scanner
	sync        *usecase.CandleSync
	collector   *usecase.TickCollector
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	cron        *cron.Cron

	// Closer releases the score publisher; set by DI.
	Closer func() error
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	scanner *usecase.Scanner,
	sync *usecase.CandleSync,
	collector *usecase.TickCollector,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		scanner:     scanner,
		sync:        sync,
		collector:   collector,
		chClient:    chClient,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			return err
		}
		a.logger = l
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// First cycle right away; the schedule takes over afterwards.
	go a.runCycle(ctx)

	a.cron = cron.New()
	spec := fmt.Sprintf("@every %s", a.cfg.Scan.Interval)
	if _, err := a.cron.AddFunc(spec, func() { a.runCycle(ctx) }); err != nil {
		return fmt.Errorf("schedule scan: %w", err)
	}
	a.cron.Start()
	l.Info("scan schedule started", applogger.Duration("interval", a.cfg.Scan.Interval))

	// Live tick feed keeps last prices fresh between cycles.
	if a.collector != nil && a.cfg.Binance.StreamEnabled {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("tick collector error", applogger.Error(err))
			}
		}()
		l.Info("tick collector started")
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// runCycle syncs candle history then scores the universe once.
func (a *App) runCycle(ctx context.Context) {
	if err := a.sync.Sync(ctx); err != nil {
		a.logger.Error("candle sync failed", applogger.Error(err))
		return
	}
	if err := a.scanner.RunCycle(ctx); err != nil {
		a.logger.Error("scan cycle failed", applogger.Error(err))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if a.cron != nil {
		stopCtx := a.cron.Stop()
		<-stopCtx.Done()
	}

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("tick collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.Closer != nil {
		if err := a.Closer(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
