package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"ledgerboard/internal/amqp"
	"ledgerboard/internal/config"
	"ledgerboard/internal/core"
	apphttp "ledgerboard/internal/http"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/services"
	"ledgerboard/internal/storage"
	"ledgerboard/internal/summary"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	valuator, err := summary.GetValuator(summary.ValuationMode(cfg.ValuationMode))
	if err != nil {
		logger.Error("Invalid valuation mode", "error", err, "mode", cfg.ValuationMode)
		os.Exit(1)
	}
	availableCash, err := core.ParseAmount(cfg.AvailableCash)
	if err != nil {
		logger.Error("Invalid available cash amount", "error", err, "value", cfg.AvailableCash)
		os.Exit(1)
	}
	engine := summary.NewEngine(repo,
		summary.WithValuator(valuator),
		summary.WithAvailableCash(availableCash),
	)

	// Export publishing is optional: without a broker, writes still land in
	// SQLite and the pending scan picks them up once the worker runs.
	var publisher services.ExportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP export publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - entries queue via pending scan only")
	}

	ledger := services.NewLedgerService(repo, publisher)
	defer ledger.Close()

	srv := apphttp.NewServer(":"+cfg.Port, repo, ledger, engine, cfg.CORSAllowedOrigin)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting ledgerboard server", "port", cfg.Port, "valuation_mode", cfg.ValuationMode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
