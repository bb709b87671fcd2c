package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/address"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/auth"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout/repository"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts service and upstream errors to HTTP codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *storeapi.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == http.StatusOK {
			// Business failure declared in a 200 body.
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, "store_error", apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, storeapi.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrMissingPassword):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, auth.ErrNotLoggedIn):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, address.ErrPhoneMismatch),
		errors.Is(err, address.ErrPincodeMismatch):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, address.ErrIndexOutOfRange):
		respondError(w, http.StatusBadRequest, "invalid_address_index", err.Error())
	case errors.Is(err, checkout.ErrUnsupportedGateway):
		respondError(w, http.StatusBadGateway, "unsupported_gateway", err.Error())
	case errors.Is(err, checkout.ErrInvalidSession):
		respondError(w, http.StatusBadGateway, "invalid_payment_session", err.Error())
	case errors.Is(err, checkout.ErrUnknownMode):
		respondError(w, http.StatusBadRequest, "invalid_payment_mode", err.Error())
	case errors.Is(err, checkout.ErrDuplicateAttempt),
		errors.Is(err, repository.ErrDuplicateKey):
		respondError(w, http.StatusConflict, "duplicate_checkout", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, repository.ErrAttemptNotFound):
		respondError(w, http.StatusNotFound, "attempt_not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// errorStatus maps a service error to an HTTP status without writing a
// response, for handlers that ship a body alongside the failure.
func errorStatus(err error) int {
	var apiErr *storeapi.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusOK {
			return http.StatusUnprocessableEntity
		}
		return apiErr.StatusCode
	case errors.Is(err, storeapi.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, checkout.ErrDuplicateAttempt),
		errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, checkout.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrUnsupportedGateway),
		errors.Is(err, checkout.ErrInvalidSession):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
