// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Identity verifies that the gated identity can be stored in context.
*/
func TestContext_Identity(t *testing.T) {
	ctx := context.Background()

	// 1. Anonymous by default
	identity, ok := ctxutil.GetIdentity(ctx)
	assert.False(t, ok)
	assert.True(t, identity.IsZero())

	// 2. Inject and retrieve
	ctx = ctxutil.WithIdentity(ctx, &sec.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})
	identity, ok = ctxutil.GetIdentity(ctx)

	assert.True(t, ok)
	assert.Equal(t, "user-123", identity.UserID())
}

/*
TestContext_Identity_FromVerifiedToken verifies the identity is the subject of a verified session token.
*/
func TestContext_Identity_FromVerifiedToken(t *testing.T) {
	tokens, err := sec.NewTokenService("ctxutil-test-secret-that-is-32-bytes", "greencart.test")
	require.NoError(t, err)

	userID := "0190a5b8-7c2e-7d3f-9a10-00000000ab01"
	token, _, err := tokens.IssueSessionToken(userID, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)

	identity, ok := ctxutil.GetIdentity(ctxutil.WithIdentity(context.Background(), claims))
	require.True(t, ok)
	assert.Equal(t, userID, identity.UserID())
}

/*
TestContext_Identity_MissingClaims verifies that nil claims or an empty subject never yield an identity.
*/
func TestContext_Identity_MissingClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims *sec.SessionClaims
	}{
		{"nil_claims", nil},
		{"empty_subject", &sec.SessionClaims{UserID: "user-123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ctxutil.WithIdentity(context.Background(), tt.claims)

			_, ok := ctxutil.GetIdentity(ctx)
			assert.False(t, ok)
		})
	}
}

/*
TestContext_Identity_ZeroValue verifies that a zero Identity reports itself as missing.
*/
func TestContext_Identity_ZeroValue(t *testing.T) {
	var identity ctxutil.Identity

	assert.True(t, identity.IsZero())
	assert.Empty(t, identity.UserID())
}
