// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"maps"
	"sync"

	"github.com/taibuivan/greencart/internal/order"
	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/auth"
	"github.com/taibuivan/greencart/internal/users/cart"
)

// memoryDB stands in for PostgreSQL across every store; one mutex makes each
// call behave as a single transaction.
type memoryDB struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	emails    map[string]string
	addresses []*address.Address
	orders    []*order.Order
	events    map[string]bool
}

func newMemoryDB() *memoryDB {
	return &memoryDB{users: map[string]*auth.User{}, emails: map[string]string{}, events: map[string]bool{}}
}

type memoryUsers struct{ db *memoryDB }

func (s memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	clone.CartItems = maps.Clone(user.CartItems)
	return &clone, nil
}

func (s memoryUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.db.mu.Lock()
	id, ok := s.db.emails[email]
	s.db.mu.Unlock()
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return s.FindByID(ctx, id)
}

func (s memoryUsers) Create(_ context.Context, user *auth.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, taken := s.db.emails[user.Email]; taken {
		return apperr.DuplicateEmail()
	}
	clone := *user
	clone.CartItems = map[string]int{}
	s.db.users[user.ID] = &clone
	s.db.emails[user.Email] = user.ID
	return nil
}

type memoryCarts struct{ db *memoryDB }

func (s memoryCarts) Replace(_ context.Context, userID string, items cart.Items) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.CartItems = maps.Clone(map[string]int(items))
	return nil
}

func (s memoryCarts) Get(_ context.Context, userID string) (cart.Items, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return cart.Items(maps.Clone(user.CartItems)), nil
}

type memoryAddresses struct{ db *memoryDB }

func (s memoryAddresses) Create(_ context.Context, row *address.Address) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	clone := *row
	s.db.addresses = append(s.db.addresses, &clone)
	return nil
}

func (s memoryAddresses) ListByUser(_ context.Context, userID string) ([]*address.Address, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	result := make([]*address.Address, 0)
	for _, row := range s.db.addresses {
		if row.UserID == userID {
			clone := *row
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s memoryAddresses) FindForUser(_ context.Context, userID, addressID string) (*address.Address, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, row := range s.db.addresses {
		if row.ID == addressID && row.UserID == userID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Address")
}

type memoryOrders struct{ db *memoryDB }

func (s memoryOrders) Create(_ context.Context, created *order.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	clone := *created
	s.db.orders = append(s.db.orders, &clone)
	if created.Status == order.StatusPlaced {
		s.db.users[created.UserID].CartItems = map[string]int{}
	}
	return nil
}

func (s memoryOrders) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	result := make([]*order.Order, 0)
	for i := len(s.db.orders) - 1; i >= 0; i-- {
		if s.db.orders[i].UserID == userID {
			clone := *s.db.orders[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s memoryOrders) ApplyPaymentEvent(_ context.Context, event order.PaymentEvent) (order.Applied, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.events[event.ID] {
		return order.Applied{Outcome: order.OutcomeDuplicate}, nil
	}
	s.db.events[event.ID] = true

	for _, existing := range s.db.orders {
		if existing.ID != event.Data.OrderID || existing.Status != order.StatusPendingPayment {
			continue
		}
		switch event.Type {
		case order.EventPaymentSucceeded:
			existing.Status, existing.IsPaid = order.StatusPaid, true
			s.db.users[existing.UserID].CartItems = map[string]int{}
		case order.EventPaymentFailed:
			existing.Status = order.StatusPaymentFailed
		default:
			return order.Applied{Outcome: order.OutcomeIgnored}, nil
		}
		clone := *existing
		return order.Applied{Outcome: order.OutcomeFinalized, Order: &clone}, nil
	}
	return order.Applied{Outcome: order.OutcomeIgnored}, nil
}

// noMarker never remembers anything, leaving idempotency to the store.
type noMarker struct{}

func (noMarker) Seen(context.Context, string) (bool, error) { return false, nil }
func (noMarker) Mark(context.Context, string) error         { return nil }
