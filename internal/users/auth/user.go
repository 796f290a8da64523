// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements shopper identity: registration, login and the
session cookie lifecycle.

# Architecture

  - [Service] owns the credential rules and issues session tokens.
  - [UserRepository] abstracts the users.account table.
  - [Handler] exposes /api/user and is the only place that writes the cookie.

Sessions are stateless signed tokens. Verification happens in the auth gate
middleware and never reaches this package.
*/
package auth

import (
	"strings"
	"time"
)

// # Domain Entities

// User is a registered shopper.
type User struct {
	ID           string         `json:"_id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"`
	CartItems    map[string]int `json:"cartItems"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Summary is the client-facing view returned after authentication.
type Summary struct {
	ID        string         `json:"_id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	CartItems map[string]int `json:"cartItems"`
}

// Summary strips credentials from the user.
func (user *User) Summary() Summary {
	cartItems := user.CartItems
	if cartItems == nil {
		cartItems = map[string]int{}
	}
	return Summary{ID: user.ID, Email: user.Email, Name: user.Name, CartItems: cartItems}
}

// NormalizeEmail trims and lower-cases an email before lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldUser     = "user"
)
