package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout"
)

type CheckoutService interface {
	Integrations(ctx context.Context, sessionID string) *checkout.IntegrationsView
	Submit(ctx context.Context, sessionID, mode, gatewayName, idempotencyKey string) (*checkout.Result, error)
	Complete(ctx context.Context, sessionID, attemptID, paymentOrderID string) (*checkout.Result, error)
	Fail(ctx context.Context, attemptID, paymentOrderID, reason string, dismissed bool) (*checkout.Result, error)
}

type CheckoutHandler struct {
	checkouts CheckoutService
	timeout   time.Duration
}

func NewCheckoutHandler(checkouts CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		timeout:   timeout,
	}
}

type SubmitCheckoutRequestDTO struct {
	Mode           string `json:"mode"`
	Gateway        string `json:"gateway,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type CompleteCheckoutRequestDTO struct {
	AttemptID      string `json:"attempt_id"`
	PaymentOrderID string `json:"payment_order_id"`
}

type FailCheckoutRequestDTO struct {
	AttemptID      string `json:"attempt_id"`
	PaymentOrderID string `json:"payment_order_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Dismissed      bool   `json:"dismissed"`
}

func (h *CheckoutHandler) Integrations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view := h.checkouts.Integrations(ctx, getSessionID(r.Context()))
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Mode == "" {
		respondError(w, http.StatusBadRequest, "missing_mode", "payment mode is required")
		return
	}

	result, err := h.checkouts.Submit(ctx, getSessionID(r.Context()), req.Mode, req.Gateway, req.IdempotencyKey)
	h.respondResult(w, result, err, http.StatusCreated)
}

func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CompleteCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.AttemptID == "" || req.PaymentOrderID == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "attempt_id and payment_order_id are required")
		return
	}

	result, err := h.checkouts.Complete(ctx, getSessionID(r.Context()), req.AttemptID, req.PaymentOrderID)
	h.respondResult(w, result, err, http.StatusOK)
}

func (h *CheckoutHandler) Fail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req FailCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.AttemptID == "" {
		respondError(w, http.StatusBadRequest, "missing_attempt_id", "attempt_id is required")
		return
	}

	result, err := h.checkouts.Fail(ctx, req.AttemptID, req.PaymentOrderID, req.Reason, req.Dismissed)
	h.respondResult(w, result, err, http.StatusOK)
}

// respondResult ships the attempt record even when the call failed, so the
// client can show the recorded failure state instead of a bare error.
func (h *CheckoutHandler) respondResult(w http.ResponseWriter, result *checkout.Result, err error, okStatus int) {
	if err != nil {
		if result == nil {
			handleServiceError(w, err)
			return
		}
		status := errorStatus(err)
		respondJSON(w, status, result)
		return
	}
	respondJSON(w, okStatus, result)
}
