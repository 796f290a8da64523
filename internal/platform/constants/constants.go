// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, session cookie and webhook signature settings.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "greencart-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "greencart.app"

	// SessionCookieName is the name of the HTTP-only cookie carrying the session token.
	SessionCookieName = "token"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// MinSessionSecretLength is the minimum byte length accepted for the HS256 secret.
	MinSessionSecretLength = 32
)

// # Payment Webhook

const (
	// HeaderPaymentSignature carries "t=<unix>,v1=<hex hmac>" on webhook deliveries.
	HeaderPaymentSignature = "Payment-Signature"

	// WebhookSignatureTolerance bounds the age of a signed webhook timestamp.
	WebhookSignatureTolerance = 5 * time.Minute

	// WebhookMaxBodyBytes caps the raw webhook payload read into memory.
	WebhookMaxBodyBytes = 64 << 10

	// PaymentEventMarkerTTL is how long a processed event id is remembered in Redis.
	PaymentEventMarkerTTL = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers  = "users"
	SchemaOrders = "orders"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixPaymentEvent = "order:payment_event:"
)

// # Broker Topology

const (
	// ExchangeOrderEvents is the topic exchange shared with the payment collaborator.
	ExchangeOrderEvents = "orders.events"

	RoutingOrderPlaced        = "order.placed"
	RoutingOrderPaid          = "order.paid"
	RoutingOrderPaymentFailed = "order.payment_failed"

	// BrokerPublishTimeout bounds a single publish call.
	BrokerPublishTimeout = 5 * time.Second
)

// # Outbox Relay

const (
	// OutboxRelayInterval is how often pending order notifications are relayed.
	OutboxRelayInterval = 2 * time.Second

	// OutboxBatchSize caps the notifications claimed per relay pass.
	OutboxBatchSize = 50

	// OutboxMaxAttempts is the delivery attempt after which a notification is abandoned.
	OutboxMaxAttempts = 10

	// OutboxMaxRetryDelay caps the exponential backoff between attempts.
	OutboxMaxRetryDelay = 5 * time.Minute
)
