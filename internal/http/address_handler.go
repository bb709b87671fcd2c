package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/cart"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

type AddressService interface {
	List(ctx context.Context, sessionID string) ([]storeapi.Address, int, error)
	Select(ctx context.Context, sessionID string, index int) (*cart.View, error)
	Save(ctx context.Context, sessionID string, addr storeapi.Address) (*storeapi.Address, error)
	Delete(ctx context.Context, sessionID, addressID string) error
}

type AddressHandler struct {
	addresses AddressService
	timeout   time.Duration
}

func NewAddressHandler(addresses AddressService, timeout time.Duration) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		timeout:   timeout,
	}
}

type AddressListResponseDTO struct {
	Addresses     []storeapi.Address `json:"addresses"`
	SelectedIndex int                `json:"selected_index"`
}

type SelectAddressRequestDTO struct {
	Index int `json:"index"`
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	addrs, selected, err := h.addresses.List(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AddressListResponseDTO{Addresses: addrs, SelectedIndex: selected})
}

func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SelectAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.addresses.Select(ctx, getSessionID(r.Context()), req.Index)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: view.Cart, Totals: view.Totals})
}

func (h *AddressHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var addr storeapi.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved, err := h.addresses.Save(ctx, getSessionID(r.Context()), addr)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if addr.ID != "" {
		status = http.StatusOK
	}
	respondJSON(w, status, saved)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	addressID := chi.URLParam(r, "address_id")
	if addressID == "" {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id is required")
		return
	}

	if err := h.addresses.Delete(ctx, getSessionID(r.Context()), addressID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{Status: "deleted"})
}
