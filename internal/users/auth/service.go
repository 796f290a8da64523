// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/metrics"
	"github.com/taibuivan/greencart/internal/platform/sec"
	"github.com/taibuivan/greencart/internal/platform/validate"
	"github.com/taibuivan/greencart/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	// IssueSessionToken returns the signed token and its absolute expiry.
	IssueSessionToken(userID string, timeToLive time.Duration) (string, time.Time, error)
}

// Service implements shopper registration and login.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	sessionTTL     time.Duration
}

// NewService constructs a [Service]. A non-positive ttl falls back to [DefaultSessionTTL].
func NewService(userRepo UserRepository, issuer TokenIssuer, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{userRepository: userRepo, tokenIssuer: issuer, sessionTTL: sessionTTL}
}

// Session is the outcome of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// # Registration Flow

// RegisterInput holds the data required to enroll a shopper.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

/*
Register validates the input, creates the account and opens a session.

Returns:
  - *Session: Token and the created user
  - error: ValidationError, DuplicateEmail or storage failures
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	// Fast path; the unique index still guards the race.
	if _, err := service.userRepository.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeDuplicate).Inc()
		return nil, apperr.DuplicateEmail()
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeError).Inc()
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeError).Inc()
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		CartItems:    map[string]int{},
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		outcome := metrics.OutcomeError
		if apperr.HasCode(err, apperr.CodeDuplicateEmail) {
			outcome = metrics.OutcomeDuplicate
		}
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, outcome).Inc()
		return nil, err
	}

	session, err := service.openSession(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(operationRegister, metrics.OutcomeSuccess).Inc()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered", slog.String("user_id", user.ID))

	return session, nil
}

// # Authentication Flow

// LoginInput holds the credentials of a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login checks the credentials and opens a session.

Unknown emails and wrong passwords produce the same [apperr.InvalidCredentials],
and both paths run one bcrypt comparison.

Returns:
  - *Session: Token and the authenticated user
  - error: InvalidCredentials or storage failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := NormalizeEmail(input.Email)

	user, err := service.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues(operationLogin, metrics.OutcomeError).Inc()
			return nil, err
		}
		sec.BurnPasswordCheck(input.Password)
		metrics.AuthAttemptsTotal.WithLabelValues(operationLogin, metrics.OutcomeRejected).Inc()
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues(operationLogin, metrics.OutcomeRejected).Inc()
		return nil, apperr.InvalidCredentials()
	}

	session, err := service.openSession(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(operationLogin, metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(operationLogin, metrics.OutcomeSuccess).Inc()
	return session, nil
}

// CurrentUser returns the account behind a gated identity.
func (service *Service) CurrentUser(ctx context.Context, identity ctxutil.Identity) (*User, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}
	return service.userRepository.FindByID(ctx, identity.UserID())
}

func (service *Service) openSession(user *User) (*Session, error) {
	token, expiresAt, err := service.tokenIssuer.IssueSessionToken(user.ID, service.sessionTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_failed: %w", err))
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
