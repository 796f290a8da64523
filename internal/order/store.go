// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"

	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/cart"
)

// Repository persists orders and payment events.
type Repository interface {

	/*
		Create inserts order. A cod order (status placed) also empties the
		owner's cart in the same transaction; an online order enqueues its
		[NotificationFor] message there.
	*/
	Create(ctx context.Context, order *Order) error

	// ListByUser returns the orders of userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	/*
		ApplyPaymentEvent records event and finalizes its order atomically.

		A finalized order enqueues its [NotificationFor] message in the same
		transaction. An event whose id is already recorded returns
		OutcomeDuplicate and changes nothing. An event naming no pending order, or of an unknown
		type, is recorded and returns OutcomeIgnored.
	*/
	ApplyPaymentEvent(ctx context.Context, event PaymentEvent) (Applied, error)
}

// EventMarker remembers recently applied event ids so redeliveries skip the database.
//
// It is an optimization only; [Repository.ApplyPaymentEvent] stays correct without it.
type EventMarker interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Publisher sends order notifications to the broker; [Relay] is its only caller.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

// CartSource reads the caller's cart.
type CartSource interface {
	Get(ctx context.Context, identity ctxutil.Identity) (cart.Items, error)
}

// AddressBook resolves an address owned by the caller.
type AddressBook interface {
	Owned(ctx context.Context, identity ctxutil.Identity, addressID string) (*address.Address, error)
}
