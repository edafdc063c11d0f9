package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/api"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/collector"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/config"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/hermes"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/logging"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/metrics"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/portfolio"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	logger := logging.Init(level, cfg.Logging.Format, os.Stdout)

	model, err := scoring.ModelFromConfig(cfg.Scoring)
	if err != nil {
		logger.Error("invalid scoring configuration", "error", err)
		os.Exit(1)
	}
	engine, err := scoring.NewEngine(model, logging.New("scoring"))
	if err != nil {
		logger.Error("failed to build scoring engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Warn("no database configured, scores are kept in memory")
	}
	defer db.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logging.New("hermes"))
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New()

	opts := []portfolio.Option{
		portfolio.WithStore(db),
		portfolio.WithMetrics(m),
		portfolio.WithWorkers(cfg.Portfolio.Workers),
	}
	if hermesClient != nil {
		opts = append(opts, portfolio.WithHermes(hermesClient))
	}
	if cfg.Collector.URL != "" {
		opts = append(opts, portfolio.WithCollector(
			collector.NewHTTPClient(cfg.Collector.URL, cfg.Collector.Token, cfg.CollectorTimeout()),
		))
	} else {
		logger.Warn("no collector configured, refresh and ticker portfolios are disabled")
	}
	runner := portfolio.NewRunner(engine, logging.New("portfolio"), opts...)
	if err := runner.SetupSubscriptions(ctx); err != nil {
		logger.Error("failed to subscribe to scoring requests", "error", err)
		os.Exit(1)
	}

	// Scheduled watchlist refresh
	scheduler := portfolio.NewScheduler(runner, cfg.Portfolio.Watchlist, cfg.RefreshInterval())
	if scheduler.Start(ctx) {
		defer scheduler.Stop()
		logger.Info("watchlist refresh started", "tickers", len(cfg.Portfolio.Watchlist), "interval", cfg.RefreshInterval())
	}

	// API server
	router := api.NewRouter(engine, runner, db, hermesClient, cfg.Server.AdminToken, logging.New("api"))
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(m, hermesClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
