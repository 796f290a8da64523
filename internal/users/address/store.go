// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package address

import "context"

// Repository persists addresses.
type Repository interface {
	// Create appends an address. Existing rows are never modified.
	Create(ctx context.Context, address *Address) error

	// ListByUser returns the addresses of userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Address, error)

	// FindForUser returns the address only when userID owns it, NotFound otherwise.
	FindForUser(ctx context.Context, userID, addressID string) (*Address, error)
}
