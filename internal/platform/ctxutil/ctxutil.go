// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/greencart/internal/platform/ctxkey"
	"github.com/taibuivan/greencart/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// Identity is the user identity resolved by the auth gate.
//
// # Trust Boundary
//
// Its field is unexported: the only way to obtain a non-zero Identity is
// [GetIdentity] on a context the gate populated through [WithIdentity].
// Operations that act on behalf of a user take an Identity rather than a raw
// user id, so a user id read from a request body cannot reach them.
type Identity struct {
	userID string
}

// UserID returns the authenticated user's id.
func (identity Identity) UserID() string { return identity.userID }

// IsZero reports whether the identity is missing.
func (identity Identity) IsZero() bool { return identity.userID == "" }

/*
WithIdentity returns a new context carrying the subject of verified claims.

Only middleware.Authenticate calls it in production, with the claims returned
by [sec.TokenService.VerifyToken]. Nil claims or an empty subject leave ctx
anonymous.
*/
func WithIdentity(ctx context.Context, claims *sec.SessionClaims) context.Context {
	if claims == nil || claims.Subject == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxkey.KeyIdentity, Identity{userID: claims.Subject})
}

// GetIdentity retrieves the gated [Identity] from the [context.Context].
// The second value is false for anonymous requests.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(Identity)
	if !ok || identity.IsZero() {
		return Identity{}, false
	}
	return identity, true
}
