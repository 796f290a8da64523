// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// OutboxTable represents the 'orders.outbox' table
type OutboxTable struct {
	Table         string
	ID            string
	RoutingKey    string
	Payload       string
	Attempts      string
	NextAttemptAt string
	LastError     string
	CreatedAt     string
	SentAt        string
}

// Outbox is the schema definition for orders.outbox
var Outbox = OutboxTable{
	Table:         "orders.outbox",
	ID:            "id",
	RoutingKey:    "routingkey",
	Payload:       "payload",
	Attempts:      "attempts",
	NextAttemptAt: "nextattemptat",
	LastError:     "lasterror",
	CreatedAt:     "createdat",
	SentAt:        "sentat",
}
