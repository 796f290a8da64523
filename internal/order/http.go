// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/greencart/internal/platform/request"
	"github.com/taibuivan/greencart/internal/platform/respond"
)

// Handler implements the /api/order endpoints.
type Handler struct {
	orderService *Service
}

// NewHandler constructs an order [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{orderService: service}
}

// Routes returns the order router. Every route sits behind gate.
//
// # Endpoints
//   - POST /place : Places an order from the stored cart.
//   - GET  /user  : Lists the caller's orders.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Post("/place", handler.place)
	router.Get("/user", handler.list)

	return router
}

// place handles POST /api/order/place.
func (handler *Handler) place(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PlaceInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orderService.Place(request.Context(), identity, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldOrder: order})
}

// list handles GET /api/order/user.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.orderService.ListForUser(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldOrders: orders})
}
