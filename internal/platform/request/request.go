// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It covers body decoding and the gated identity so handlers share one error
mapping.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/validate"
)

// maxJSONBodyBytes bounds JSON bodies decoded by [DecodeJSON].
const maxJSONBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to bound the body size)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	body := http.MaxBytesReader(writer, request.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
RequiredIdentity returns the identity attached by the auth gate.

It never looks at the request body. Handlers acting on behalf of a user must
obtain the user through this function.

Returns:
  - ctxutil.Identity: The gated identity
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (ctxutil.Identity, error) {
	identity, ok := ctxutil.GetIdentity(request.Context())
	if !ok {
		return ctxutil.Identity{}, apperr.Unauthorized("Not Authorized")
	}
	return identity, nil
}
