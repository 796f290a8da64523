// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order implements checkout: order placement from the stored cart and
finalization driven by the payment collaborator's signed webhook.

# Lifecycle

	cod:    placed
	online: pending_payment -> paid | payment_failed

Only a pending_payment order can be finalized, and each payment event id is
applied at most once. Finalization records the event, moves the order and
clears the cart (on success) in one transaction.

# Notifications

Broker messages are written to an outbox in the transaction that changes the
order. [Relay] delivers them afterwards, at least once.
*/
package order

import "time"

// PaymentType selects how the order is settled.
type PaymentType string

const (
	PaymentCOD    PaymentType = "cod"
	PaymentOnline PaymentType = "online"
)

// Status is the order's position in its lifecycle.
type Status string

const (
	StatusPlaced         Status = "placed"
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusPaymentFailed  Status = "payment_failed"
)

// Order is a snapshot of a shopper's cart bound to a shipping address.
type Order struct {
	ID          string         `json:"_id"`
	UserID      string         `json:"userId"`
	Items       map[string]int `json:"items"`
	AddressID   string         `json:"address"`
	PaymentType PaymentType    `json:"paymentType"`
	Status      Status         `json:"status"`
	IsPaid      bool           `json:"isPaid"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// # Payment Events

// Event types sent by the payment collaborator.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// PaymentEvent is the webhook payload.
type PaymentEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data PaymentEventData `json:"data"`
}

// PaymentEventData identifies the order the event settles.
type PaymentEventData struct {
	OrderID string `json:"orderId"`
}

// Outcome reports what applying a payment event did.
type Outcome string

const (
	// OutcomeFinalized means the order left pending_payment.
	OutcomeFinalized Outcome = "finalized"
	// OutcomeDuplicate means the event id was already applied.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored means the event was recorded but named no pending order or an unknown type.
	OutcomeIgnored Outcome = "ignored"
)

// Applied is the result of [Repository.ApplyPaymentEvent].
type Applied struct {
	Outcome Outcome
	// Order is the finalized order, set only for OutcomeFinalized.
	Order *Order
}

// # Broker Messages

// Event is the broker payload announcing an order state change.
type Event struct {
	OrderID     string         `json:"orderId"`
	UserID      string         `json:"userId"`
	Status      Status         `json:"status"`
	PaymentType PaymentType    `json:"paymentType"`
	Items       map[string]int `json:"items"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

func newEvent(order *Order, at time.Time) Event {
	return Event{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		PaymentType: order.PaymentType,
		Items:       order.Items,
		OccurredAt:  at,
	}
}

const (
	FieldOrder       = "order"
	FieldOrders      = "orders"
	FieldAddressID   = "addressId"
	FieldPaymentType = "paymentType"
)
