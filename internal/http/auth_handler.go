package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

type AuthService interface {
	SendOTP(ctx context.Context, channel storeapi.OTPChannel, destination string) error
	VerifyOTP(ctx context.Context, sessionID string, channel storeapi.OTPChannel, destination, code string) error
	Login(ctx context.Context, sessionID, email, password string) error
	Logout(ctx context.Context, sessionID string) error
	Details(ctx context.Context, sessionID string) (*storeapi.Customer, error)
}

type AuthHandler struct {
	auth    AuthService
	timeout time.Duration
}

func NewAuthHandler(auth AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		timeout: timeout,
	}
}

type SendOTPRequestDTO struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
}

type VerifyOTPRequestDTO struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Code        string `json:"code"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StatusResponseDTO struct {
	Status string `json:"status"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SendOTPRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.auth.SendOTP(ctx, storeapi.OTPChannel(req.Channel), req.Destination); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{Status: "otp_sent"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req VerifyOTPRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "missing_code", "verification code is required")
		return
	}

	err := h.auth.VerifyOTP(ctx, getSessionID(r.Context()), storeapi.OTPChannel(req.Channel), req.Destination, req.Code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{Status: "logged_in"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.auth.Login(ctx, getSessionID(r.Context()), req.Email, req.Password); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{Status: "logged_in"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Logout(ctx, getSessionID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{Status: "logged_out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, err := h.auth.Details(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}
