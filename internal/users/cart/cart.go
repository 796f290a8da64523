// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart persists the per-shopper cart.

The cart is a mapping of product id to quantity stored on the account row.
Every write replaces the whole mapping; concurrent writers resolve
last-write-wins and never merge.

The owner is always the [ctxutil.Identity] resolved by the auth gate. Request
bodies have no way to name a different user.
*/
package cart

import (
	"fmt"
	"strings"

	"github.com/taibuivan/greencart/internal/platform/apperr"
)

// Items maps product id to quantity.
type Items map[string]int

// FieldCartItems is the request and response key for the cart mapping.
const FieldCartItems = "cartItems"

// Normalize validates items and returns the mapping to store.
//
// Zero quantities are removals and are dropped. Negative quantities and empty
// product ids are rejected. A nil input normalizes to an empty cart.
func (items Items) Normalize() (Items, error) {
	normalized := make(Items, len(items))
	var details []apperr.FieldError

	for productID, quantity := range items {
		field := fmt.Sprintf("%s.%s", FieldCartItems, productID)
		switch {
		case strings.TrimSpace(productID) == "":
			details = append(details, apperr.FieldError{Field: FieldCartItems, Message: "Product id must not be empty"})
		case quantity < 0:
			details = append(details, apperr.FieldError{Field: field, Message: "Quantity must not be negative"})
		case quantity == 0:
			continue
		default:
			normalized[productID] = quantity
		}
	}

	if len(details) > 0 {
		return nil, apperr.ValidationError("Validation failed", details...)
	}

	return normalized, nil
}
