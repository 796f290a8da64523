// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the GreenCart storefront API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables.
//  2. Initialize structured logger (stdout, optional rotating file).
//  3. Connect to PostgreSQL (pgxpool), Redis and RabbitMQ.
//  4. Run database migrations (idempotent).
//  5. Wire stores, services and HTTP handlers.
//  6. Start the outbox relay and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/greencart/internal/api"
	"github.com/taibuivan/greencart/internal/order"
	"github.com/taibuivan/greencart/internal/platform/broker"
	"github.com/taibuivan/greencart/internal/platform/config"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/logging"
	"github.com/taibuivan/greencart/internal/platform/migration"
	pgstore "github.com/taibuivan/greencart/internal/platform/postgres"
	redisstore "github.com/taibuivan/greencart/internal/platform/redis"
	"github.com/taibuivan/greencart/internal/platform/sec"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/auth"
	"github.com/taibuivan/greencart/internal/users/cart"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Loaded before the logger so DEBUG and LOG_FILE apply from the first line.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failure: load configuration:", err)
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, logSink := logging.New(logging.Options{
		App:   constants.AppName,
		Debug: cfg.Debug,
		File:  cfg.LogFile,
	})
	slog.SetDefault(log)
	defer logSink.Close()

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. RabbitMQ ───────────────────────────────────────────────────────
	brokerConn, err := broker.Connect(cfg.RabbitURL, log)
	must(log, err, "connect to rabbitmq")
	defer func() {
		log.Info("closing rabbitmq connection")
		if cerr := brokerConn.Close(); cerr != nil {
			log.Error("rabbitmq close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Session Tokens ─────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize session token service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		CheckBroker:   brokerConn.Ping,
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewUserRepository(pool), tokens, cfg.SessionTTL)
	cartService := cart.NewService(cart.NewRepository(pool))
	addressService := address.NewService(address.NewRepository(pool))
	orderRepository := order.NewRepository(pool)
	orderService := order.NewService(order.Dependencies{
		Repository: orderRepository,
		Carts:      cartService,
		Addresses:  addressService,
		Marker:     order.NewEventMarker(rdb),
	})

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	// serveCtx stops background work (rate limiter sweeps, outbox relay) on shutdown.
	serveCtx, stopServing := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stopServing()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		order.NewRelay(orderRepository, broker.NewPublisher(brokerConn), log).Run(serveCtx)
	}()

	handlers := api.Handlers{
		Liveness:       liveness,
		Readiness:      readiness,
		Auth:           auth.NewHandler(authService, cfg.IsProduction()),
		Cart:           cart.NewHandler(cartService),
		Address:        address.NewHandler(addressService),
		Order:          order.NewHandler(orderService),
		PaymentWebhook: order.NewWebhookHandler(orderService, cfg.PaymentWebhookSecret),
	}

	server := api.NewServer(serveCtx, cfg, log, tokens, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-serveCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	// Stop the relay before the deferred pool and broker closes run.
	stopServing()
	<-relayDone

	log.Info("server stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
