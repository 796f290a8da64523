// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package address implements the shopper's append-only address book.
package address

import "time"

// Address is one shipping address owned by a shopper.
type Address struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName" validate:"required,max=100"`
	LastName  string    `json:"lastName" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email,max=254"`
	Street    string    `json:"street" validate:"required,max=200"`
	City      string    `json:"city" validate:"required,max=100"`
	State     string    `json:"state" validate:"required,max=100"`
	ZipCode   string    `json:"zipcode" validate:"required,max=20"`
	Country   string    `json:"country" validate:"required,max=100"`
	Phone     string    `json:"phone" validate:"required,max=30"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	FieldAddress   = "address"
	FieldAddresses = "addresses"
)
