// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package address

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	requestutil "github.com/taibuivan/greencart/internal/platform/request"
	"github.com/taibuivan/greencart/internal/platform/respond"
)

// Handler implements the /api/address endpoints.
type Handler struct {
	addressService *Service
}

// NewHandler constructs an address [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{addressService: service}
}

// Routes returns the address router. Every route sits behind gate.
//
// # Endpoints
//   - POST /add : Appends an address.
//   - GET  /get : Lists the caller's addresses.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Post("/add", handler.add)
	router.Get("/get", handler.list)

	return router
}

type addRequest struct {
	Address *Address `json:"address"`
}

// add handles POST /api/address/add.
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Address == nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldAddress, Message: "This field is required",
		}))
		return
	}

	if _, err := handler.addressService.Add(request.Context(), identity, *input.Address); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Address added successfully")
}

// list handles GET /api/address/get.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	addresses, err := handler.addressService.List(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldAddresses: addresses})
}
