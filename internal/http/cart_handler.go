package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
)

type CartHandler struct {
	store       Store
	catalog     CatalogEffects
	timeout     time.Duration
	maxBodySize int64
}

func NewCartHandler(store Store, catalog CatalogEffects, timeout time.Duration, maxBodySize int64) *CartHandler {
	return &CartHandler{
		store:       store,
		catalog:     catalog,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartResponse struct {
	Items         []domain.CartLineItem `json:"cartItems"`
	TotalQuantity int                   `json:"cartTotalQuantity"`
	TotalAmount   json.Number           `json:"cartTotalAmount"`
}

func newCartResponse(s state.CartState) CartResponse {
	return CartResponse{
		Items:         s.Items,
		TotalQuantity: s.Quantity,
		TotalAmount:   json.Number(s.Amount.StringFixed(2)),
	}
}

// GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, newCartResponse(h.store.Snapshot().Cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, h.maxBodySize, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := lookupProduct(ctx, w, h.catalog, req.ProductID)
	if !ok {
		return
	}

	next := h.store.Dispatch(state.AddToCart{Product: product})
	respondJSON(w, http.StatusCreated, newCartResponse(next.Cart))
}

// POST /api/v1/cart/items/{id}/increase
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.dispatchForID(w, r, func(id int64) state.Action { return state.IncreaseCart{ID: id} })
}

// POST /api/v1/cart/items/{id}/decrease
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.dispatchForID(w, r, func(id int64) state.Action { return state.DecreaseCart{ID: id} })
}

// DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.dispatchForID(w, r, func(id int64) state.Action { return state.RemoveFromCart{ID: id} })
}

// PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, h.maxBodySize, &req) {
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	next := h.store.Dispatch(state.UpdateCartQuantity{ID: id, Quantity: *req.Quantity})
	respondJSON(w, http.StatusOK, newCartResponse(next.Cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	next := h.store.Dispatch(state.ClearCart{})
	respondJSON(w, http.StatusOK, newCartResponse(next.Cart))
}

func (h *CartHandler) dispatchForID(w http.ResponseWriter, r *http.Request, action func(id int64) state.Action) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	next := h.store.Dispatch(action(id))
	respondJSON(w, http.StatusOK, newCartResponse(next.Cart))
}

// lookupProduct reports false after writing the error response itself.
func lookupProduct(ctx context.Context, w http.ResponseWriter, catalog CatalogEffects, id int64) (domain.Product, bool) {
	product, err := catalog.LookupProduct(ctx, id)
	switch {
	case errors.Is(err, state.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return domain.Product{}, false
	case err != nil:
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch product details",
			Code:    "upstream_error",
			Details: err.Error(),
		})
		return domain.Product{}, false
	}
	return product, true
}
