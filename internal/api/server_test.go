// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/greencart/internal/api"
	"github.com/taibuivan/greencart/internal/order"
	"github.com/taibuivan/greencart/internal/platform/config"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/sec"
	"github.com/taibuivan/greencart/internal/users/address"
	"github.com/taibuivan/greencart/internal/users/auth"
	"github.com/taibuivan/greencart/internal/users/cart"
)

const (
	testSessionSecret = "server-test-session-secret-32-bytes!"
	testWebhookSecret = "server-test-webhook-secret"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "development",
		SessionSecret:  testSessionSecret,
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	require.NoError(t, err)

	db := newMemoryDB()
	cartService := cart.NewService(memoryCarts{db})
	addressService := address.NewService(memoryAddresses{db})
	orderService := order.NewService(order.Dependencies{
		Repository: memoryOrders{db},
		Carts:      cartService,
		Addresses:  addressService,
		Marker:     noMarker{},
	})

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("redis down") },
	}, logger)

	server := api.NewServer(ctx, cfg, logger, tokens, api.Handlers{
		Liveness:       liveness,
		Readiness:      readiness,
		Auth:           auth.NewHandler(auth.NewService(memoryUsers{db}, tokens, cfg.SessionTTL), false),
		Cart:           cart.NewHandler(cartService),
		Address:        address.NewHandler(addressService),
		Order:          order.NewHandler(orderService),
		PaymentWebhook: order.NewWebhookHandler(orderService, testWebhookSecret),
	})

	return server.Handler()
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, path, body string) (int, map[string]any) {
	c.t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		request.AddCookie(c.cookie)
	}

	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			c.cookie = cookie
		}
	}

	var decoded map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	}
	return recorder.Code, decoded
}

/*
TestEndToEnd_SessionAndCart walks register, bad login, unauthorized update,
authorized update and read-back through the full router.
*/
func TestEndToEnd_SessionAndCart(t *testing.T) {
	handler := newTestServer(t)
	alice := &client{t: t, handler: handler}

	// 1. Register
	status, body := alice.do(http.MethodPost, "/api/user/register", `{"name":"Alice","email":"alice@example.com","password":"password-1"}`)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, alice.cookie)
	userID := body["user"].(map[string]any)["_id"].(string)

	// 2. Wrong password
	stranger := &client{t: t, handler: handler}
	status, body = stranger.do(http.MethodPost, "/api/user/login", `{"email":"alice@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	// 3. Cart update without a session, naming Alice in the body
	status, _ = stranger.do(http.MethodPost, "/api/cart/update", `{"userId":"`+userID+`","cartItems":{"p1":9}}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	// 4. Authorized update
	status, body = alice.do(http.MethodPost, "/api/cart/update", `{"cartItems":{"p1":2,"p2":1}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cart Updated", body["message"])

	// 5. Read back
	status, body = alice.do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"p1": float64(2), "p2": float64(1)}, body["cartItems"])

	status, body = alice.do(http.MethodGet, "/api/user/is-auth", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"p1": float64(2), "p2": float64(1)}, body["user"].(map[string]any)["cartItems"])

	// 6. Fresh login sees the same cart
	relogin := &client{t: t, handler: handler}
	status, body = relogin.do(http.MethodPost, "/api/user/login", `{"email":"ALICE@example.com","password":"password-1"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"p1": float64(2), "p2": float64(1)}, body["user"].(map[string]any)["cartItems"])
}

/*
TestEndToEnd_CrossUserIsolation verifies a session can only ever write its own cart.
*/
func TestEndToEnd_CrossUserIsolation(t *testing.T) {
	handler := newTestServer(t)
	alice := &client{t: t, handler: handler}
	bob := &client{t: t, handler: handler}

	_, body := bob.do(http.MethodPost, "/api/user/register", `{"name":"Bob","email":"bob@example.com","password":"password-1"}`)
	bobID := body["user"].(map[string]any)["_id"].(string)
	alice.do(http.MethodPost, "/api/user/register", `{"name":"Alice","email":"alice@example.com","password":"password-1"}`)

	bob.do(http.MethodPost, "/api/cart/update", `{"cartItems":{"bob-item":1}}`)
	status, _ := alice.do(http.MethodPost, "/api/cart/update", `{"userId":"`+bobID+`","cartItems":{"hijack":99}}`)
	require.Equal(t, http.StatusOK, status)

	_, body = bob.do(http.MethodGet, "/api/cart", "")
	assert.Equal(t, map[string]any{"bob-item": float64(1)}, body["cartItems"])
	_, body = alice.do(http.MethodGet, "/api/cart", "")
	assert.Equal(t, map[string]any{"hijack": float64(99)}, body["cartItems"])
}

/*
TestEndToEnd_OnlineCheckout verifies placement and webhook finalization through the router.
*/
func TestEndToEnd_OnlineCheckout(t *testing.T) {
	handler := newTestServer(t)
	shopper := &client{t: t, handler: handler}

	shopper.do(http.MethodPost, "/api/user/register", `{"name":"Carol","email":"carol@example.com","password":"password-1"}`)
	shopper.do(http.MethodPost, "/api/cart/update", `{"cartItems":{"apple":3}}`)
	status, _ := shopper.do(http.MethodPost, "/api/address/add", `{"address":{"firstName":"C","lastName":"D","email":"c@example.com","street":"1 Main","city":"Town","state":"ST","zipcode":"12345","country":"US","phone":"555"}}`)
	require.Equal(t, http.StatusOK, status)

	_, body := shopper.do(http.MethodGet, "/api/address/get", "")
	addresses := body["addresses"].([]any)
	require.Len(t, addresses, 1)
	addressID := addresses[0].(map[string]any)["_id"].(string)

	status, body = shopper.do(http.MethodPost, "/api/order/place", `{"addressId":"`+addressID+`","paymentType":"online"}`)
	require.Equal(t, http.StatusOK, status)
	placed := body["order"].(map[string]any)
	assert.Equal(t, "pending_payment", placed["status"])

	// The webhook ignores cookies and CORS; only the signature matters.
	payload := []byte(`{"id":"evt_e2e","type":"payment.succeeded","data":{"orderId":"` + placed["_id"].(string) + `"}}`)
	for attempt := 0; attempt < 2; attempt++ {
		request := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
		request.Header.Set(constants.HeaderPaymentSignature, sec.SignWebhookPayload([]byte(testWebhookSecret), time.Now(), payload))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	_, body = shopper.do(http.MethodGet, "/api/order/user", "")
	orders := body["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "paid", orders[0].(map[string]any)["status"])

	_, body = shopper.do(http.MethodGet, "/api/cart", "")
	assert.Empty(t, body["cartItems"])
}

/*
TestHealthEndpoints verifies liveness and the degraded readiness response.
*/
func TestHealthEndpoints(t *testing.T) {
	handler := newTestServer(t)
	anonymous := &client{t: t, handler: handler}

	status, body := anonymous.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = anonymous.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "http_requests_total")
}
