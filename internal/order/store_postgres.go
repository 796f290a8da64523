// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/greencart/internal/platform/database/schema"
	"github.com/taibuivan/greencart/internal/platform/dberr"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/postgres"
	ids "github.com/taibuivan/greencart/pkg/uuid"
)

// PostgresRepository implements [Repository] on the orders schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// clearCartQuery empties a user's cart; it runs inside order transactions.
var clearCartQuery = fmt.Sprintf(`UPDATE %s SET %s = '{}'::jsonb, %s = NOW() WHERE %s = $1`,
	schema.UserAccount.Table, schema.UserAccount.CartItems, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

// enqueueQuery stores a notification; it runs inside order transactions.
var enqueueQuery = fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, NOW(), NOW())`,
	schema.Outbox.Table, schema.Outbox.ID, schema.Outbox.RoutingKey, schema.Outbox.Payload,
	schema.Outbox.NextAttemptAt, schema.Outbox.CreatedAt)

// enqueue writes the notification owed for order, if any, within transaction.
func enqueue(ctx context.Context, transaction pgx.Tx, order *Order) error {
	notification, ok := NotificationFor(order, order.UpdatedAt)
	if !ok {
		return nil
	}
	_, err := transaction.Exec(ctx, enqueueQuery, ids.New(), notification.RoutingKey, notification.Event)
	return err
}

/*
Create inserts the order in one transaction with its side effects.

A cod order also empties the cart. An online order also enqueues its
order.placed notification.
*/
func (repository *PostgresRepository) Create(ctx context.Context, order *Order) error {
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		schema.Order.Table, schema.Order.SelectList())

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	err := postgres.WithTx(ctx, repository.pool, func(transaction pgx.Tx) error {
		if _, err := transaction.Exec(ctx, insertQuery,
			order.ID,
			order.UserID,
			order.Items,
			order.AddressID,
			order.PaymentType,
			order.Status,
			order.IsPaid,
			now,
		); err != nil {
			return err
		}

		if order.Status == StatusPlaced {
			if _, err := transaction.Exec(ctx, clearCartQuery, order.UserID); err != nil {
				return err
			}
		}
		return enqueue(ctx, transaction, order)
	})
	if err != nil {
		return dberr.Wrap(err, "Order", "insert_order")
	}

	return nil
}

// ListByUser returns the orders of userID, newest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		schema.Order.SelectList(), schema.Order.Table, schema.Order.UserID, schema.Order.CreatedAt, schema.Order.ID)

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Order", "list_orders")
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Order", "scan_order")
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Order", "iterate_orders")
	}

	return orders, nil
}

/*
ApplyPaymentEvent records the event and finalizes its order in one transaction.

# Steps
 1. Insert the event id; an existing id means a redelivery and ends the transaction.
 2. Move the order out of pending_payment with a conditional UPDATE.
 3. On success, empty the owner's cart.
 4. Enqueue the order.paid or order.payment_failed notification.

Two deliveries racing on the same id serialize on the primary key: the loser
blocks until the winner commits, then observes the conflict.
*/
func (repository *PostgresRepository) ApplyPaymentEvent(ctx context.Context, event PaymentEvent) (Applied, error) {
	events := schema.PaymentEvent
	recordQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s) DO NOTHING`,
		events.Table, events.ID, events.OrderID, events.Type, events.ReceivedAt, events.ID)

	finalizeQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $4
		RETURNING %s`,
		schema.Order.Table, schema.Order.Status, schema.Order.IsPaid, schema.Order.UpdatedAt,
		schema.Order.ID, schema.Order.Status, schema.Order.SelectList())

	var applied Applied

	err := postgres.WithTx(ctx, repository.pool, func(transaction pgx.Tx) error {
		tag, err := transaction.Exec(ctx, recordQuery, event.ID, event.Data.OrderID, event.Type)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			applied = Applied{Outcome: OutcomeDuplicate}
			return nil
		}

		target, paid, known := finalStatus(event.Type)
		if _, parseErr := uuid.Parse(event.Data.OrderID); !known || parseErr != nil {
			applied = Applied{Outcome: OutcomeIgnored}
			return nil
		}

		order, err := scanOrder(transaction.QueryRow(ctx, finalizeQuery, event.Data.OrderID, target, paid, StatusPendingPayment))
		if errors.Is(err, pgx.ErrNoRows) {
			applied = Applied{Outcome: OutcomeIgnored}
			return nil
		}
		if err != nil {
			return err
		}

		if paid {
			if _, err := transaction.Exec(ctx, clearCartQuery, order.UserID); err != nil {
				return err
			}
		}

		if err := enqueue(ctx, transaction, order); err != nil {
			return err
		}

		applied = Applied{Outcome: OutcomeFinalized, Order: order}
		return nil
	})
	if err != nil {
		return Applied{}, dberr.Wrap(err, "Order", "apply_payment_event")
	}

	return applied, nil
}

/*
Dispatch relays due outbox messages inside one transaction.

Rows are claimed with FOR UPDATE SKIP LOCKED, so concurrent relays never
deliver the same row in the same pass. Delivery is at least once: a crash
after the broker accepts a message but before commit sends it again.
*/
func (repository *PostgresRepository) Dispatch(ctx context.Context, limit int, deliver func(context.Context, OutboxMessage) error) (DispatchResult, error) {
	outbox := schema.Outbox
	claimQuery := fmt.Sprintf(`
		SELECT %s, %s, %s::text, %s
		FROM %s
		WHERE %s IS NULL AND %s <= NOW()
		ORDER BY %s
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		outbox.ID, outbox.RoutingKey, outbox.Payload, outbox.Attempts,
		outbox.Table,
		outbox.SentAt, outbox.NextAttemptAt,
		outbox.CreatedAt)

	sentQuery := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = NULL WHERE %s = $1`,
		outbox.Table, outbox.SentAt, outbox.LastError, outbox.ID)

	retryQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW() + make_interval(secs => $3), %s = $4
		WHERE %s = $1`,
		outbox.Table, outbox.Attempts, outbox.NextAttemptAt, outbox.LastError, outbox.ID)

	abandonQuery := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW(), %s = $3 WHERE %s = $1`,
		outbox.Table, outbox.Attempts, outbox.SentAt, outbox.LastError, outbox.ID)

	var result DispatchResult

	err := postgres.WithTx(ctx, repository.pool, func(transaction pgx.Tx) error {
		rows, err := transaction.Query(ctx, claimQuery, limit)
		if err != nil {
			return err
		}

		messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutboxMessage, error) {
			var message OutboxMessage
			var payload string
			if err := row.Scan(&message.ID, &message.RoutingKey, &payload, &message.Attempts); err != nil {
				return message, err
			}
			message.Payload = json.RawMessage(payload)
			return message, nil
		})
		if err != nil {
			return err
		}

		for _, message := range messages {
			deliverErr := deliver(ctx, message)
			if deliverErr == nil {
				if _, err := transaction.Exec(ctx, sentQuery, message.ID); err != nil {
					return err
				}
				result.Sent++
				continue
			}

			attempts := message.Attempts + 1
			if attempts >= constants.OutboxMaxAttempts {
				if _, err := transaction.Exec(ctx, abandonQuery, message.ID, attempts, "max attempts reached: "+deliverErr.Error()); err != nil {
					return err
				}
				result.Abandoned++
				continue
			}

			if _, err := transaction.Exec(ctx, retryQuery, message.ID, attempts, RetryDelay(attempts).Seconds(), deliverErr.Error()); err != nil {
				return err
			}
			result.Retried++
		}
		return nil
	})
	if err != nil {
		return DispatchResult{}, dberr.Wrap(err, "Outbox", "dispatch_outbox")
	}

	return result, nil
}

// finalStatus maps an event type to the order status it produces.
func finalStatus(eventType string) (status Status, paid bool, known bool) {
	switch eventType {
	case EventPaymentSucceeded:
		return StatusPaid, true, true
	case EventPaymentFailed:
		return StatusPaymentFailed, false, true
	default:
		return "", false, false
	}
}

func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Items,
		&order.AddressID,
		&order.PaymentType,
		&order.Status,
		&order.IsPaid,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
