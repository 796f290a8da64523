// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/database/schema"
	"github.com/taibuivan/greencart/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the users.account cartitems column.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Replace overwrites the cart in one UPDATE so readers never observe a partial mapping.
func (repository *PostgresRepository) Replace(ctx context.Context, userID string, items Items) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.CartItems, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	if items == nil {
		items = Items{}
	}

	tag, err := repository.pool.Exec(ctx, query, userID, map[string]int(items))
	if err != nil {
		return dberr.Wrap(err, "User", "replace_cart")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// Get reads the cart column.
func (repository *PostgresRepository) Get(ctx context.Context, userID string) (Items, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.CartItems, schema.UserAccount.Table, schema.UserAccount.ID)

	var items map[string]int
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&items); err != nil {
		return nil, dberr.Wrap(err, "User", "select_cart")
	}

	if items == nil {
		items = map[string]int{}
	}
	return Items(items), nil
}
