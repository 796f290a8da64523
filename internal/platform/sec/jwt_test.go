// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/greencart/internal/platform/sec"
)

const (
	testSecret = "test-secret-that-is-at-least-32-bytes-long"
	testIssuer = "greencart.test"
	testUserID = "0190a5b8-7c2e-7d3f-9a10-2b3c4d5e6f70"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTokenService(t *testing.T, secret string, at time.Time) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, testIssuer)
	require.NoError(t, err)
	return service.WithClock(fixedClock(at))
}

/*
TestTokenService_RoundTrip verifies that a freshly issued token resolves to the same user.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTokenService(t, testSecret, issuedAt)

	token, expiresAt, err := service.IssueSessionToken(testUserID, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(7*24*time.Hour), expiresAt)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.Subject)
	assert.Equal(t, testUserID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

/*
TestTokenService_ValidUntilExpiry checks acceptance right before and rejection right after expiry.
*/
func TestTokenService_ValidUntilExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTokenService(t, testSecret, issuedAt)

	token, _, err := issuer.IssueSessionToken(testUserID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		isValid bool
	}{
		{"just_issued", issuedAt, true},
		{"one_second_before_expiry", issuedAt.Add(time.Hour - time.Second), true},
		{"at_expiry", issuedAt.Add(time.Hour), false},
		{"long_after_expiry", issuedAt.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newTokenService(t, testSecret, tt.at)
			claims, err := verifier.VerifyToken(token)

			if tt.isValid {
				require.NoError(t, err)
				assert.Equal(t, testUserID, claims.UserID)
			} else {
				assert.ErrorIs(t, err, sec.ErrInvalidToken)
				assert.Nil(t, claims)
			}
		})
	}
}

/*
TestTokenService_SecretRotation verifies that changing the secret invalidates old tokens.
*/
func TestTokenService_SecretRotation(t *testing.T) {
	now := time.Now()
	oldService := newTokenService(t, testSecret, now)
	newService := newTokenService(t, "another-secret-that-is-also-32-bytes-long!", now)

	token, _, err := oldService.IssueSessionToken(testUserID, time.Hour)
	require.NoError(t, err)

	_, err = newService.VerifyToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_RejectsTampering covers forged payloads and foreign algorithms.
*/
func TestTokenService_RejectsTampering(t *testing.T) {
	now := time.Now()
	service := newTokenService(t, testSecret, now)

	token, _, err := service.IssueSessionToken(testUserID, time.Hour)
	require.NoError(t, err)

	t.Run("flipped_signature_byte", func(t *testing.T) {
		tampered := []byte(token)
		last := len(tampered) - 2
		if tampered[last] == 'A' {
			tampered[last] = 'B'
		} else {
			tampered[last] = 'A'
		}
		_, err := service.VerifyToken(string(tampered))
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("alg_none", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": testUserID,
			"uid": testUserID,
			"iss": testIssuer,
			"exp": now.Add(time.Hour).Unix(),
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.VerifyToken(unsigned)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})
}

/*
TestTokenService_RejectsMalformedSubject verifies the subject must be a UUID.
*/
func TestTokenService_RejectsMalformedSubject(t *testing.T) {
	now := time.Now()
	service := newTokenService(t, testSecret, now)

	token, _, err := service.IssueSessionToken("not-a-uuid", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_RejectsMissingExpiry verifies that tokens without exp are not accepted.
*/
func TestTokenService_RejectsMissingExpiry(t *testing.T) {
	service := newTokenService(t, testSecret, time.Now())

	claims := jwt.MapClaims{"sub": testUserID, "uid": testUserID, "iss": testIssuer}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestNewTokenService_EmptySecret verifies construction fails without a secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer)
	assert.Error(t, err)
}
