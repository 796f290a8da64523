// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package broker publishes order notifications to RabbitMQ.

A single connection and channel are opened at startup. The topic exchange
[constants.ExchangeOrderEvents] is declared durable so consumers owned by the
payment collaborator can bind their own queues to it.
*/
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taibuivan/greencart/internal/platform/constants"
)

// ErrClosed is returned when publishing on a closed connection.
var ErrClosed = errors.New("broker: connection closed")

// Conn owns the AMQP connection and its single publishing channel.
type Conn struct {
	connection *amqp.Connection
	channel    *amqp.Channel
}

// Connect dials url, opens a channel and declares the order exchange.
func Connect(url string, logger *slog.Logger) (*Conn, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial failed: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("broker: channel open failed: %w", err)
	}

	if err := channel.ExchangeDeclare(constants.ExchangeOrderEvents, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = connection.Close()
		return nil, fmt.Errorf("broker: exchange declare failed: %w", err)
	}

	logger.Info("broker_connected", slog.String("exchange", constants.ExchangeOrderEvents))

	return &Conn{connection: connection, channel: channel}, nil
}

// Ping reports whether the connection is still open.
func (c *Conn) Ping(context.Context) error {
	if c.connection == nil || c.connection.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the channel, then the connection.
func (c *Conn) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.connection != nil && !c.connection.IsClosed() {
		return c.connection.Close()
	}
	return nil
}

// Publisher sends JSON messages to one exchange.
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	now      func() time.Time
}

// NewPublisher returns a publisher bound to the order exchange of conn.
func NewPublisher(conn *Conn) *Publisher {
	return &Publisher{channel: conn.channel, exchange: constants.ExchangeOrderEvents, now: time.Now}
}

// PublishJSON marshals payload and publishes it as a persistent message.
//
// The call is bounded by [constants.BrokerPublishTimeout] in addition to ctx.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshal %s: %w", routingKey, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, constants.BrokerPublishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(publishCtx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Body:         body,
	})
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("broker: publish %s: %w", routingKey, err)
	}

	return nil
}
