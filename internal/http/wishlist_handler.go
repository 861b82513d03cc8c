package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
)

type WishlistHandler struct {
	store       Store
	catalog     CatalogEffects
	timeout     time.Duration
	maxBodySize int64
}

func NewWishlistHandler(store Store, catalog CatalogEffects, timeout time.Duration, maxBodySize int64) *WishlistHandler {
	return &WishlistHandler{
		store:       store,
		catalog:     catalog,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type WishlistResponse struct {
	Items []domain.WishlistItem `json:"wishlistItems"`
	Count int                   `json:"count"`
}

func newWishlistResponse(s state.WishlistState) WishlistResponse {
	return WishlistResponse{Items: s.Items, Count: s.Count()}
}

// GET /api/v1/wishlist
func (h *WishlistHandler) Get(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, newWishlistResponse(h.store.Snapshot().Wishlist))
}

// POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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

	next := h.store.Dispatch(state.AddToWishlist{Product: product})
	respondJSON(w, http.StatusCreated, newWishlistResponse(next.Wishlist))
}

// POST /api/v1/wishlist/items/{id}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if h.store.Snapshot().Wishlist.Contains(id) {
		next := h.store.Dispatch(state.RemoveFromWishlist{ID: id})
		respondJSON(w, http.StatusOK, newWishlistResponse(next.Wishlist))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := lookupProduct(ctx, w, h.catalog, id)
	if !ok {
		return
	}
	next := h.store.Dispatch(state.ToggleWishlist{Product: product})
	respondJSON(w, http.StatusOK, newWishlistResponse(next.Wishlist))
}

// POST /api/v1/wishlist/items/{id}/move-to-cart adds the product to the cart and
// leaves it on the wishlist.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, found := h.store.Snapshot().Wishlist.Find(id)
	if !found {
		respondError(w, http.StatusNotFound, "not_in_wishlist", "product is not on the wishlist")
		return
	}

	next := h.store.Dispatch(state.AddToCart{Product: product})
	respondJSON(w, http.StatusOK, newCartResponse(next.Cart))
}

// DELETE /api/v1/wishlist/items/{id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	next := h.store.Dispatch(state.RemoveFromWishlist{ID: id})
	respondJSON(w, http.StatusOK, newWishlistResponse(next.Wishlist))
}

// DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	next := h.store.Dispatch(state.ClearWishlist{})
	respondJSON(w, http.StatusOK, newWishlistResponse(next.Wishlist))
}
