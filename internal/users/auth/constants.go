// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultSessionTTL is used when no TTL is configured.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// MinPasswordLength is enforced at registration only; login accepts any input.
	MinPasswordLength = 8

	// MaxPasswordBytes is the longest input bcrypt will hash.
	MaxPasswordBytes = 72

	// MaxNameLength bounds the display name.
	MaxNameLength = 100

	// MaxEmailLength bounds the email column.
	MaxEmailLength = 254
)

// Metric operation labels.
const (
	operationLogin    = "login"
	operationRegister = "register"
)
