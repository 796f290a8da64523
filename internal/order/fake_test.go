// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/greencart/internal/order"
	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/cart"
)

// memoryShop holds carts, addresses, orders, payment events and the outbox
// behind one lock, so every method behaves like a single database transaction.
type memoryShop struct {
	mu        sync.Mutex
	carts     map[string]cart.Items
	addresses map[string]string
	orders    map[string]*order.Order
	events    map[string]string
	sequence  []string
	outbox    []*outboxRow
}

type outboxRow struct {
	message     order.OutboxMessage
	nextAttempt time.Time
	sent        bool
	lastError   string
}

func newMemoryShop() *memoryShop {
	return &memoryShop{
		carts:     map[string]cart.Items{},
		addresses: map[string]string{},
		orders:    map[string]*order.Order{},
		events:    map[string]string{},
	}
}

func (m *memoryShop) setCart(userID string, items cart.Items) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = maps.Clone(items)
}

func (m *memoryShop) cartOf(userID string) cart.Items {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.carts[userID])
}

func (m *memoryShop) addAddress(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.addresses[id] = userID
	return id
}

func (m *memoryShop) orderByID(id string) *order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *m.orders[id]
	return &clone
}

// pending returns the routing keys of undelivered outbox rows, sorted.
func (m *memoryShop) pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0)
	for _, row := range m.outbox {
		if !row.sent {
			keys = append(keys, row.message.RoutingKey)
		}
	}
	sort.Strings(keys)
	return keys
}

// makeDue lets every rescheduled outbox row be retried immediately.
func (m *memoryShop) makeDue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.outbox {
		row.nextAttempt = time.Time{}
	}
}

// enqueue must be called with m.mu held.
func (m *memoryShop) enqueue(owner *order.Order) {
	notification, ok := order.NotificationFor(owner, owner.UpdatedAt)
	if !ok {
		return
	}
	payload, _ := json.Marshal(notification.Event)
	m.outbox = append(m.outbox, &outboxRow{message: order.OutboxMessage{
		ID:         uuid.NewString(),
		RoutingKey: notification.RoutingKey,
		Payload:    payload,
	}})
}

func (m *memoryShop) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// CartSource

func (m *memoryShop) Get(_ context.Context, identity ctxutil.Identity) (cart.Items, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.carts[identity.UserID()]), nil
}

// AddressBook

func (m *memoryShop) Owned(_ context.Context, identity ctxutil.Identity, addressID string) (*address.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.addresses[addressID]; !ok || owner != identity.UserID() {
		return nil, apperr.NotFound("Address")
	}
	return &address.Address{ID: addressID, UserID: identity.UserID()}, nil
}

// Repository

func (m *memoryShop) Create(_ context.Context, created *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *created
	m.orders[created.ID] = &clone
	m.sequence = append(m.sequence, created.ID)
	if created.Status == order.StatusPlaced {
		m.carts[created.UserID] = cart.Items{}
	}
	m.enqueue(created)
	return nil
}

func (m *memoryShop) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*order.Order, 0)
	for i := len(m.sequence) - 1; i >= 0; i-- {
		if existing := m.orders[m.sequence[i]]; existing.UserID == userID {
			clone := *existing
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *memoryShop) ApplyPaymentEvent(_ context.Context, event order.PaymentEvent) (order.Applied, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.events[event.ID]; seen {
		return order.Applied{Outcome: order.OutcomeDuplicate}, nil
	}
	m.events[event.ID] = event.Type

	existing, ok := m.orders[event.Data.OrderID]
	if !ok || existing.Status != order.StatusPendingPayment {
		return order.Applied{Outcome: order.OutcomeIgnored}, nil
	}

	switch event.Type {
	case order.EventPaymentSucceeded:
		existing.Status = order.StatusPaid
		existing.IsPaid = true
		m.carts[existing.UserID] = cart.Items{}
	case order.EventPaymentFailed:
		existing.Status = order.StatusPaymentFailed
	default:
		return order.Applied{Outcome: order.OutcomeIgnored}, nil
	}

	m.enqueue(existing)
	clone := *existing
	return order.Applied{Outcome: order.OutcomeFinalized, Order: &clone}, nil
}

// Outbox

func (m *memoryShop) Dispatch(ctx context.Context, limit int, deliver func(context.Context, order.OutboxMessage) error) (order.DispatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result order.DispatchResult
	now := time.Now()
	claimed := 0
	for _, row := range m.outbox {
		if claimed == limit {
			break
		}
		if row.sent || row.nextAttempt.After(now) {
			continue
		}
		claimed++

		err := deliver(ctx, row.message)
		switch {
		case err == nil:
			row.sent = true
			result.Sent++
		case row.message.Attempts+1 >= constants.OutboxMaxAttempts:
			row.message.Attempts++
			row.sent = true
			row.lastError = err.Error()
			result.Abandoned++
		default:
			row.message.Attempts++
			row.nextAttempt = now.Add(order.RetryDelay(row.message.Attempts))
			row.lastError = err.Error()
			result.Retried++
		}
	}
	return result, nil
}

// memoryMarker is an [order.EventMarker] that can be switched to fail.
type memoryMarker struct {
	mu     sync.Mutex
	seen   map[string]bool
	broken bool
}

var errMarkerDown = errors.New("marker down")

func newMemoryMarker() *memoryMarker { return &memoryMarker{seen: map[string]bool{}} }

func (m *memoryMarker) Seen(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return false, errMarkerDown
	}
	return m.seen[eventID], nil
}

func (m *memoryMarker) Mark(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return errMarkerDown
	}
	m.seen[eventID] = true
	return nil
}

// recordingPublisher captures routing keys in publish order.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []published
	fail     bool
}

type published struct {
	routingKey string
	event      order.Event
}

func (p *recordingPublisher) PublishJSON(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}

	var event order.Event
	if err := json.Unmarshal(payload.(json.RawMessage), &event); err != nil {
		return err
	}
	p.messages = append(p.messages, published{routingKey: routingKey, event: event})
	return nil
}

func (p *recordingPublisher) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.messages))
	for _, message := range p.messages {
		keys = append(keys, message.routingKey)
	}
	sort.Strings(keys)
	return keys
}
