// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and all domain
handlers into a runnable [http.Server].

Route layout:

  - /health, /ready, /metrics : infrastructure endpoints, no auth.
  - /webhooks/payment         : signature-verified, outside the API group so
    neither CORS, rate limiting nor the auth gate touch it.
  - /api/...                  : storefront routes; each domain router applies
    the auth gate to its own protected routes.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/greencart/internal/order"
	"github.com/taibuivan/greencart/internal/platform/config"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/middleware"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/auth"
	"github.com/taibuivan/greencart/internal/users/cart"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Auth handles /api/user.
	Auth *auth.Handler

	// Cart handles /api/cart.
	Cart *cart.Handler

	// Address handles /api/address.
	Address *address.Handler

	// Order handles /api/order.
	Order *order.Handler

	// PaymentWebhook handles /webhooks/payment.
	PaymentWebhook *order.WebhookHandler
}

// # Server Initialization

// NewServer constructs the router and registers all route groups.
//
// ctx bounds background work owned by middleware, such as the rate limiter's
// cleanup loop.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Applied to every route, including the webhook. None of these read the body.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Metrics())
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// # Payment Collaborator
	r.With(chimw.Timeout(constants.GlobalRequestTimeout)).
		Post("/webhooks/payment", h.PaymentWebhook.ServeHTTP)

	// # Storefront API
	gate := middleware.Authenticate(verifier)

	r.Route("/api", func(api chi.Router) {
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.RateLimit(ctx))
		api.Use(middleware.CORS(cfg))

		api.Mount("/user", h.Auth.Routes(gate))
		api.Mount("/cart", h.Cart.Routes(gate))
		api.Mount("/address", h.Address.Routes(gate))
		api.Mount("/order", h.Order.Routes(gate))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
