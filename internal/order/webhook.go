// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/greencart/internal/platform/apperr"
	"github.com/taibuivan/greencart/internal/platform/constants"
	"github.com/taibuivan/greencart/internal/platform/ctxutil"
	"github.com/taibuivan/greencart/internal/platform/metrics"
	"github.com/taibuivan/greencart/internal/platform/respond"
	"github.com/taibuivan/greencart/internal/platform/sec"
)

// WebhookHandler receives signed payment events.
//
// It must be mounted where no middleware reads or rewrites the body, because
// the signature covers the exact bytes sent by the collaborator.
type WebhookHandler struct {
	orderService *Service
	secret       []byte
	tolerance    time.Duration
	now          func() time.Time
}

// NewWebhookHandler constructs a [WebhookHandler] verifying with secret.
func NewWebhookHandler(service *Service, secret string) *WebhookHandler {
	return &WebhookHandler{
		orderService: service,
		secret:       []byte(secret),
		tolerance:    constants.WebhookSignatureTolerance,
		now:          time.Now,
	}
}

// WithClock returns a copy of the handler that reads time from now.
func (handler *WebhookHandler) WithClock(now func() time.Time) *WebhookHandler {
	clone := *handler
	clone.now = now
	return &clone
}

/*
ServeHTTP handles POST /webhooks/payment.

Response:
  - 200: {received:true} for applied, duplicate and ignored events
  - 400: INVALID_SIGNATURE, or VALIDATION_ERROR for an unreadable body
  - 5xx: storage failures, so the collaborator retries
*/
func (handler *WebhookHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	// ── 1. Raw Body ───────────────────────────────────────────────────────
	payload, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constants.WebhookMaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("Payload too large"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Unreadable payload"))
		return
	}

	// ── 2. Signature ──────────────────────────────────────────────────────
	header := request.Header.Get(constants.HeaderPaymentSignature)
	if err := sec.VerifyWebhookSignature(handler.secret, header, payload, handler.now(), handler.tolerance); err != nil {
		metrics.PaymentWebhookEventsTotal.WithLabelValues("unverified", metrics.OutcomeRejected).Inc()
		logger.WarnContext(ctx, "payment_webhook_signature_rejected", slog.String("reason", err.Error()))
		respond.Error(writer, request, apperr.InvalidSignature())
		return
	}

	// ── 3. Decode & Dispatch ──────────────────────────────────────────────
	var event PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid JSON payload"))
		return
	}

	if _, err := handler.orderService.HandlePaymentEvent(ctx, event); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{"received": true})
}
