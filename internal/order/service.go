// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"log/slog"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/metrics"
	"github.com/taibuivan/greencart/internal/platform/validate"
	"github.com/taibuivan/greencart/pkg/uuid"
)

// Service places orders and applies payment events.
type Service struct {
	repository Repository
	carts      CartSource
	addresses  AddressBook
	marker     EventMarker
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Repository Repository
	Carts      CartSource
	Addresses  AddressBook
	Marker     EventMarker
}

// NewService constructs an order [Service].
func NewService(deps Dependencies) *Service {
	return &Service{
		repository: deps.Repository,
		carts:      deps.Carts,
		addresses:  deps.Addresses,
		marker:     deps.Marker,
	}
}

// # Placement

// PlaceInput is the checkout request.
type PlaceInput struct {
	AddressID   string `json:"addressId" validate:"required,uuid"`
	PaymentType string `json:"paymentType" validate:"required,oneof=cod online"`
}

/*
Place snapshots the caller's cart into a new order.

cod orders start placed and empty the cart. online orders start
pending_payment, keep the cart, and enqueue an order.placed notification for
the payment collaborator in the same transaction.

Returns:
  - *Order: The created order
  - error: Unauthorized, ValidationError (bad input or empty cart),
    NotFound (foreign or missing address), or storage failures
*/
func (service *Service) Place(ctx context.Context, identity ctxutil.Identity, input PlaceInput) (*Order, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}

	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if _, err := service.addresses.Owned(ctx, identity, input.AddressID); err != nil {
		return nil, err
	}

	items, err := service.carts.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.ValidationError("Cart is empty")
	}

	paymentType := PaymentType(input.PaymentType)
	status := StatusPlaced
	if paymentType == PaymentOnline {
		status = StatusPendingPayment
	}

	order := &Order{
		ID:          uuid.New(),
		UserID:      identity.UserID(),
		Items:       map[string]int(items),
		AddressID:   input.AddressID,
		PaymentType: paymentType,
		Status:      status,
	}

	if err := service.repository.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersPlacedTotal.WithLabelValues(string(paymentType)).Inc()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "order_placed",
		slog.String("order_id", order.ID),
		slog.String("payment_type", string(paymentType)),
	)

	return order, nil
}

// ListForUser returns the caller's orders, newest first.
func (service *Service) ListForUser(ctx context.Context, identity ctxutil.Identity) ([]*Order, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}
	return service.repository.ListByUser(ctx, identity.UserID())
}

// # Payment Finalization

/*
HandlePaymentEvent applies a verified webhook event at most once.

Redeliveries are first filtered through the [EventMarker]; marker failures are
logged and fall through to the database, which decides idempotency on its own.

Returns:
  - Outcome: finalized, duplicate or ignored
  - error: ValidationError for an event without id, or storage failures
*/
func (service *Service) HandlePaymentEvent(ctx context.Context, event PaymentEvent) (Outcome, error) {
	logger := ctxutil.GetLogger(ctx).With(
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.String("order_id", event.Data.OrderID),
	)

	if event.ID == "" {
		return "", validate.RequiredError("id", "This field is required")
	}

	seen, err := service.marker.Seen(ctx, event.ID)
	if err != nil {
		logger.WarnContext(ctx, "payment_event_marker_unavailable", slog.Any("error", err))
	}
	if seen {
		service.countWebhook(event.Type, OutcomeDuplicate)
		logger.InfoContext(ctx, "payment_event_duplicate")
		return OutcomeDuplicate, nil
	}

	applied, err := service.repository.ApplyPaymentEvent(ctx, event)
	if err != nil {
		metrics.PaymentWebhookEventsTotal.WithLabelValues(eventLabel(event.Type), metrics.OutcomeError).Inc()
		return "", err
	}

	if err := service.marker.Mark(ctx, event.ID); err != nil {
		logger.WarnContext(ctx, "payment_event_marker_unavailable", slog.Any("error", err))
	}

	service.countWebhook(event.Type, applied.Outcome)

	switch applied.Outcome {
	case OutcomeFinalized:
		logger.InfoContext(ctx, "order_payment_finalized", slog.String("status", string(applied.Order.Status)))
	case OutcomeIgnored:
		logger.WarnContext(ctx, "payment_event_ignored")
	case OutcomeDuplicate:
		logger.InfoContext(ctx, "payment_event_duplicate")
	}

	return applied.Outcome, nil
}

func (service *Service) countWebhook(eventType string, outcome Outcome) {
	label := metrics.OutcomeSuccess
	switch outcome {
	case OutcomeDuplicate:
		label = metrics.OutcomeDuplicate
	case OutcomeIgnored:
		label = metrics.OutcomeRejected
	}
	metrics.PaymentWebhookEventsTotal.WithLabelValues(eventLabel(eventType), label).Inc()
}

// eventLabel keeps metric cardinality bounded for arbitrary event types.
func eventLabel(eventType string) string {
	switch eventType {
	case EventPaymentSucceeded, EventPaymentFailed:
		return eventType
	default:
		return "other"
	}
}
