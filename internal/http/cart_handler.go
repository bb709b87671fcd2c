package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/cart"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

// CartService is what the cart handler needs from internal/cart.
type CartService interface {
	Fetch(ctx context.Context, sessionID string) (*cart.View, error)
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*cart.View, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) (*cart.View, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (*cart.View, error)
	RemovePromo(ctx context.Context, sessionID string) (*cart.View, error)
	PromoCodes(ctx context.Context, sessionID string) ([]storeapi.PromoCode, error)
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type ApplyPromoRequestDTO struct {
	Code string `json:"code"`
}

// CartResponseDTO carries the refetched cart, the derived totals and, when
// the mutation itself failed, the error message to surface as a toast.
type CartResponseDTO struct {
	Cart   *storeapi.Cart `json:"cart"`
	Totals cart.Totals    `json:"totals"`
	Error  string         `json:"error,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.Fetch(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: view.Cart, Totals: view.Totals})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Parse request body
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Validate request
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	view, err := h.carts.AddItem(ctx, getSessionID(r.Context()), req.ProductID, req.Quantity)
	h.respondMutation(w, view, err, http.StatusCreated)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	view, errRemove := h.carts.RemoveItem(ctx, getSessionID(r.Context()), productID)
	h.respondMutation(w, view, errRemove, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.Clear(ctx, getSessionID(r.Context()))
	h.respondMutation(w, view, err, http.StatusOK)
}

func (h *CartHandler) ListPromoCodes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	codes, err := h.carts.PromoCodes(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, codes)
}

func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyPromoRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "missing_code", "promo code is required")
		return
	}

	view, err := h.carts.ApplyPromo(ctx, getSessionID(r.Context()), req.Code)
	h.respondMutation(w, view, err, http.StatusOK)
}

func (h *CartHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.RemovePromo(ctx, getSessionID(r.Context()))
	h.respondMutation(w, view, err, http.StatusOK)
}

// respondMutation keeps the refetch-after-write contract visible to the
// client: when the mutation failed but the guaranteed refetch succeeded,
// the fresh cart ships alongside the error message.
func (h *CartHandler) respondMutation(w http.ResponseWriter, view *cart.View, err error, okStatus int) {
	if err != nil && view == nil {
		handleServiceError(w, err)
		return
	}

	dto := CartResponseDTO{Cart: view.Cart, Totals: view.Totals}
	if err != nil {
		dto.Error = err.Error()
		respondJSON(w, http.StatusUnprocessableEntity, dto)
		return
	}
	respondJSON(w, okStatus, dto)
}
