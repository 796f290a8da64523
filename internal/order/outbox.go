// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/metrics"
)

// # Notifications

// Notification is a broker message owed for an order state change.
type Notification struct {
	RoutingKey string
	Event      Event
}

/*
NotificationFor returns the message announcing order's current status.

cod orders (status placed) are not announced. The second value is false when
no message is owed.
*/
func NotificationFor(order *Order, at time.Time) (Notification, bool) {
	var routingKey string
	switch order.Status {
	case StatusPendingPayment:
		routingKey = constants.RoutingOrderPlaced
	case StatusPaid:
		routingKey = constants.RoutingOrderPaid
	case StatusPaymentFailed:
		routingKey = constants.RoutingOrderPaymentFailed
	default:
		return Notification{}, false
	}
	return Notification{RoutingKey: routingKey, Event: newEvent(order, at)}, true
}

// # Outbox

// OutboxMessage is a stored notification awaiting delivery.
type OutboxMessage struct {
	ID         string
	RoutingKey string
	Payload    json.RawMessage
	// Attempts counts the failed deliveries so far.
	Attempts int
}

// DispatchResult summarizes one relay pass.
type DispatchResult struct {
	Sent      int
	Retried   int
	Abandoned int
}

// Outbox stores notifications written alongside order state changes.
type Outbox interface {

	/*
		Dispatch claims up to limit due messages, passes each to deliver, and
		records the result.

		A delivered message is marked sent. A failed one is rescheduled after
		[RetryDelay], or abandoned once it reaches [constants.OutboxMaxAttempts].
	*/
	Dispatch(ctx context.Context, limit int, deliver func(context.Context, OutboxMessage) error) (DispatchResult, error)
}

// RetryDelay is the wait before the next attempt of a message that has failed attempts times.
func RetryDelay(attempts int) time.Duration {
	if attempts < 1 {
		return time.Second
	}
	if attempts > 16 {
		return constants.OutboxMaxRetryDelay
	}
	return min(time.Duration(1<<attempts)*time.Second, constants.OutboxMaxRetryDelay)
}

// # Relay

// Relay moves outbox messages to the broker until its context ends.
type Relay struct {
	outbox    Outbox
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewRelay creates a [Relay] using the default interval and batch size.
func NewRelay(outbox Outbox, publisher Publisher, logger *slog.Logger) *Relay {
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		interval:  constants.OutboxRelayInterval,
		batchSize: constants.OutboxBatchSize,
		logger:    logger,
	}
}

// WithInterval returns a copy of the relay that polls every interval.
func (relay *Relay) WithInterval(interval time.Duration) *Relay {
	clone := *relay
	clone.interval = interval
	return &clone
}

// Run relays on every tick and returns when ctx is cancelled.
func (relay *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(relay.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := relay.Flush(ctx); err != nil && ctx.Err() == nil {
				relay.logger.ErrorContext(ctx, "outbox_relay_failed", slog.Any("error", err))
			}
		}
	}
}

// Flush runs a single relay pass.
func (relay *Relay) Flush(ctx context.Context) (DispatchResult, error) {
	result, err := relay.outbox.Dispatch(ctx, relay.batchSize, relay.deliver)
	if err != nil {
		return result, err
	}

	if result.Abandoned > 0 {
		metrics.OutboxAbandonedTotal.Add(float64(result.Abandoned))
		relay.logger.ErrorContext(ctx, "outbox_messages_abandoned", slog.Int("count", result.Abandoned))
	}
	return result, nil
}

func (relay *Relay) deliver(ctx context.Context, message OutboxMessage) error {
	if err := relay.publisher.PublishJSON(ctx, message.RoutingKey, message.Payload); err != nil {
		metrics.BrokerPublishFailuresTotal.WithLabelValues(message.RoutingKey).Inc()
		relay.logger.WarnContext(ctx, "order_event_publish_failed",
			slog.String("routing_key", message.RoutingKey),
			slog.String("message_id", message.ID),
			slog.Int("attempt", message.Attempts+1),
			slog.Any("error", err),
		)
		return err
	}

	metrics.OutboxDeliveredTotal.WithLabelValues(message.RoutingKey).Inc()
	return nil
}
