// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import "context"

// Repository stores the cart of each account.
type Repository interface {

	/*
		Replace overwrites the cart of userID with items in a single write.

		Returns:
		  - error: apperr.NotFound when no account matches, or storage failures
	*/
	Replace(ctx context.Context, userID string, items Items) error

	/*
		Get returns the stored cart of userID.

		Returns:
		  - Items: The stored mapping, never nil
		  - error: apperr.NotFound when no account matches, or storage failures
	*/
	Get(ctx context.Context, userID string) (Items, error)
}
