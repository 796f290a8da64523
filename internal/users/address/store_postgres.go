// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package address

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/greencart/internal/platform/database/schema"
	"github.com/taibuivan/greencart/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on users.address.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (repository *PostgresRepository) Create(ctx context.Context, address *Address) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		schema.UserAddress.Table, schema.UserAddress.SelectList())

	address.CreatedAt = time.Now().UTC()

	_, err := repository.pool.Exec(ctx, query,
		address.ID,
		address.UserID,
		address.FirstName,
		address.LastName,
		address.Email,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.Phone,
		address.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Address", "insert_address")
	}

	return nil
}

// ListByUser returns every address of userID, newest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		schema.UserAddress.SelectList(), schema.UserAddress.Table,
		schema.UserAddress.UserID, schema.UserAddress.CreatedAt, schema.UserAddress.ID)

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Address", "list_addresses")
	}
	defer rows.Close()

	addresses := make([]*Address, 0)
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Address", "scan_address")
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Address", "iterate_addresses")
	}

	return addresses, nil
}

// FindForUser scopes the lookup by owner so foreign ids read as missing.
func (repository *PostgresRepository) FindForUser(ctx context.Context, userID, addressID string) (*Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserAddress.SelectList(), schema.UserAddress.Table, schema.UserAddress.ID, schema.UserAddress.UserID)

	address, err := scanAddress(repository.pool.QueryRow(ctx, query, addressID, userID))
	if err != nil {
		return nil, dberr.Wrap(err, "Address", "select_address")
	}

	return address, nil
}

func scanAddress(row pgx.Row) (*Address, error) {
	address := &Address{}
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.FirstName,
		&address.LastName,
		&address.Email,
		&address.Street,
		&address.City,
		&address.State,
		&address.ZipCode,
		&address.Country,
		&address.Phone,
		&address.CreatedAt,
	)
	return address, err
}
