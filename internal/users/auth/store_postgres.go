// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/database/schema"
	"github.com/taibuivan/greencart/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL-backed [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create inserts a new account with an empty cart.

A unique violation on the email index becomes [apperr.DuplicateEmail], so two
concurrent registrations for one address cannot both succeed.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, '{}'::jsonb, $5, $5)`,
		schema.UserAccount.Table, schema.UserAccount.SelectList())

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.CartItems = map[string]int{}

	_, err := repository.pool.Exec(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, now)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			duplicate := apperr.DuplicateEmail()
			duplicate.Cause = err
			return duplicate
		}
		return dberr.Wrap(err, "User", "insert_user")
	}

	return nil
}

// FindByEmail looks up an account by its normalized email.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, schema.UserAccount.Email)
	return repository.scanOne(ctx, query, email)
}

// FindByID looks up an account by id.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, schema.UserAccount.ID)
	return repository.scanOne(ctx, query, id)
}

func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, argument string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CartItems,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User", "select_user")
	}

	return user, nil
}
