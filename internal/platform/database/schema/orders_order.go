// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// OrderTable represents the 'orders."order"' table
type OrderTable struct {
	Table       string
	ID          string
	UserID      string
	Items       string
	AddressID   string
	PaymentType string
	Status      string
	IsPaid      string
	CreatedAt   string
	UpdatedAt   string
}

// Order is the schema definition for orders."order"
var Order = OrderTable{
	Table:       `orders."order"`,
	ID:          "id",
	UserID:      "userid",
	Items:       "items",
	AddressID:   "addressid",
	PaymentType: "paymenttype",
	Status:      "status",
	IsPaid:      "ispaid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t OrderTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Items, t.AddressID, t.PaymentType,
		t.Status, t.IsPaid, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns Columns joined for a SELECT or RETURNING clause.
func (t OrderTable) SelectList() string {
	return selectList(t.Columns())
}
