// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors are process-wide and registered with the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # Outcome Labels

const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// # HTTP

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// # Domain

var (
	// AuthAttemptsTotal counts register/login attempts by outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of register and login attempts",
		},
		[]string{"operation", "outcome"},
	)

	// CartUpdatesTotal counts full-replace cart writes.
	CartUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_updates_total",
			Help: "Total number of cart replace operations",
		},
		[]string{"outcome"},
	)

	// OrdersPlacedTotal counts orders by payment type.
	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders placed",
		},
		[]string{"payment_type"},
	)

	// PaymentWebhookEventsTotal counts webhook deliveries by event type and outcome.
	PaymentWebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Total number of payment webhook deliveries",
		},
		[]string{"type", "outcome"},
	)

	// BrokerPublishFailuresTotal counts order notifications that could not be published.
	BrokerPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broker_publish_failures_total",
			Help: "Total number of failed broker publishes",
		},
		[]string{"routing_key"},
	)

	// OutboxDeliveredTotal counts outbox notifications accepted by the broker.
	OutboxDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_delivered_total",
			Help: "Total number of outbox notifications delivered to the broker",
		},
		[]string{"routing_key"},
	)

	// OutboxAbandonedTotal counts notifications given up after the last attempt.
	OutboxAbandonedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_abandoned_total",
			Help: "Total number of outbox notifications abandoned after max attempts",
		},
	)
)
