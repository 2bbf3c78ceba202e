package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-ledger-core/config"
	"wallet-ledger-core/internal/adapter/exchange"
	httpHandler "wallet-ledger-core/internal/adapter/http/handler"
	pgStorage "wallet-ledger-core/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger-core/internal/adapter/storage/redis"
	"wallet-ledger-core/internal/core/ports"
	"wallet-ledger-core/internal/service"
	"wallet-ledger-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("reference_currency", cfg.Exchange.ReferenceCurrency).
		Msg("Starting Wallet Ledger Core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txLog := pgStorage.NewTransactionLogRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Exchange-rate source: NBP client behind a Redis cache
	rateCache := redisStorage.NewRateCache(rdb)
	nbpClient := exchange.NewNBPClient(cfg.Exchange.BaseURL, cfg.Exchange.Reference(), cfg.Exchange.Timeout, log)
	rateSource := exchange.NewCachedRateSource(nbpClient, rateCache, cfg.Exchange.CacheTTL, log)

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, cfg.Exchange.Reference(), log)
	ledgerSvc := service.NewLedgerService(
		walletRepo,
		txLog,
		rateSource,
		transactor,
		cfg.Ledger.ConflictRetries,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		LedgerSvc:      ledgerSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
