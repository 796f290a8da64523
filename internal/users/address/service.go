// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package address

import (
	"context"
	"strings"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/validate"
	"github.com/taibuivan/greencart/pkg/uuid"
)

// Service manages the address book of a gated identity.
type Service struct {
	repository Repository
}

// NewService constructs an address [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Add validates input and stores it as a new address owned by identity.
//
// Any id or owner on input is overwritten.
func (service *Service) Add(ctx context.Context, identity ctxutil.Identity, input Address) (*Address, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}

	address := input
	trimFields(&address)

	if err := validate.Struct(address); err != nil {
		return nil, err
	}

	address.ID = uuid.New()
	address.UserID = identity.UserID()

	if err := service.repository.Create(ctx, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

// List returns the caller's addresses.
func (service *Service) List(ctx context.Context, identity ctxutil.Identity) ([]*Address, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}
	return service.repository.ListByUser(ctx, identity.UserID())
}

// Owned returns addressID if the caller owns it.
func (service *Service) Owned(ctx context.Context, identity ctxutil.Identity, addressID string) (*Address, error) {
	if identity.IsZero() {
		return nil, apperr.Unauthorized("Not Authorized")
	}
	return service.repository.FindForUser(ctx, identity.UserID(), addressID)
}

func trimFields(address *Address) {
	for _, field := range []*string{
		&address.FirstName, &address.LastName, &address.Email, &address.Street,
		&address.City, &address.State, &address.ZipCode, &address.Country, &address.Phone,
	} {
		*field = strings.TrimSpace(*field)
	}
}
