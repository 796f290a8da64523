// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PaymentEventTable represents the 'orders.paymentevent' table
type PaymentEventTable struct {
	Table      string
	ID         string
	OrderID    string
	Type       string
	ReceivedAt string
}

// PaymentEvent is the schema definition for orders.paymentevent
var PaymentEvent = PaymentEventTable{
	Table:      "orders.paymentevent",
	ID:         "id",
	OrderID:    "orderid",
	Type:       "type",
	ReceivedAt: "receivedat",
}
