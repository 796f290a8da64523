// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/greencart/internal/platform/request"
	"github.com/taibuivan/greencart/internal/platform/respond"
)

// Handler implements the /api/cart endpoints.
type Handler struct {
	cartService *Service
}

// NewHandler constructs a cart [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{cartService: service}
}

// Routes returns the cart router. Every route sits behind gate.
//
// # Endpoints
//   - POST /update : Replaces the cart.
//   - GET  /       : Returns the cart.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Post("/update", handler.update)
	router.Get("/", handler.get)

	return router
}

// updateRequest carries only the mapping. A "userId" key in the body is not
// decoded into anything.
type updateRequest struct {
	CartItems Items `json:"cartItems"`
}

/*
update handles POST /api/cart/update.

Response:
  - 200: {success:true, message:"Cart Updated"}
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cartService.Update(request.Context(), identity, input.CartItems); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Cart Updated")
}

// get handles GET /api/cart.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.cartService.Get(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldCartItems: items})
}
