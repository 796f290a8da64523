// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"log/slog"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/metrics"
)

// Service applies cart mutations on behalf of a gated identity.
type Service struct {
	repository Repository
}

// NewService constructs a cart [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Update replaces the caller's cart with items.

Returns:
  - error: Unauthorized for a zero identity, ValidationError for bad
    quantities, NotFound if the account vanished, or storage failures
*/
func (service *Service) Update(ctx context.Context, identity ctxutil.Identity, items Items) error {
	if identity.IsZero() {
		metrics.CartUpdatesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return apperr.Unauthorized("Not Authorized")
	}

	normalized, err := items.Normalize()
	if err != nil {
		metrics.CartUpdatesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return err
	}

	if err := service.repository.Replace(ctx, identity.UserID(), normalized); err != nil {
		metrics.CartUpdatesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	metrics.CartUpdatesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	ctxutil.GetLogger(ctx).DebugContext(ctx, "cart_replaced", slog.Int("lines", len(normalized)))

	return nil
}

// Get returns the caller's stored cart.
func (service *Service) Get(ctx context.Context, identity ctxutil.Identity) (Items, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}
	return service.repository.Get(ctx, identity.UserID())
}
