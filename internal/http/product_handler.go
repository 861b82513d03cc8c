package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
)

const (
	allCategories  = "All"
	defaultPerPage = 8
	maxPerPage     = 100
)

type ProductHandler struct {
	store   Store
	catalog CatalogEffects
	timeout time.Duration
}

func NewProductHandler(store Store, catalog CatalogEffects, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		store:   store,
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductListResponse struct {
	Items      []domain.Product     `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
	Category   string               `json:"category"`
	Search     string               `json:"search,omitempty"`
	Categories []string             `json:"categories"`
	Status     domain.RequestStatus `json:"status"`
	Error      string               `json:"error,omitempty"`
}

type CategoriesResponse struct {
	Categories []string             `json:"categories"`
	Status     domain.RequestStatus `json:"status"`
	Error      string               `json:"error,omitempty"`
}

// GET /api/v1/products?search=&category=&page=&per_page=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	page, ok := positiveQueryInt(w, q.Get("page"), 1, "invalid_page", "page must be a positive integer")
	if !ok {
		return
	}
	perPage, ok := positiveQueryInt(w, q.Get("per_page"), defaultPerPage, "invalid_per_page", "per_page must be a positive integer")
	if !ok {
		return
	}
	perPage = min(perPage, maxPerPage)

	if len(h.store.Snapshot().Catalog.Categories) == 0 {
		h.catalog.FetchCategories(ctx)
	}

	category := strings.TrimSpace(q.Get("category"))
	if category == "" || strings.EqualFold(category, allCategories) {
		category = allCategories
	}
	var next state.AppState
	if category == allCategories {
		next = h.catalog.FetchProducts(ctx)
	} else {
		next = h.catalog.FetchProductsByCategory(ctx, category)
	}
	catalog := next.Catalog

	search := strings.ToLower(strings.TrimSpace(q.Get("search")))
	matches := filterProducts(catalog.Items, search)

	total := len(matches)
	totalPages := (total + perPage - 1) / perPage
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * perPage
		end = min(start+perPage, total)
	}

	respondJSON(w, http.StatusOK, ProductListResponse{
		Items:      matches[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Category:   category,
		Search:     search,
		Categories: catalog.Categories,
		Status:     catalog.Status,
		Error:      catalog.Error,
	})
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if p, found := h.store.Snapshot().Catalog.FindProduct(id); found {
		respondJSON(w, http.StatusOK, p)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, next, err := h.catalog.FetchProductDetails(ctx, id)
	switch {
	case errors.Is(err, state.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	case err != nil:
		message := next.Catalog.Error
		if message == "" {
			message = "Failed to fetch product details"
		}
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   message,
			Code:    "upstream_error",
			Details: err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/products/selected
func (h *ProductHandler) ClearSelected(w http.ResponseWriter, _ *http.Request) {
	h.store.Dispatch(state.ClearSelectedProduct{})
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	catalog := h.catalog.FetchCategories(ctx).Catalog
	respondJSON(w, http.StatusOK, CategoriesResponse{
		Categories: catalog.Categories,
		Status:     catalog.Status,
		Error:      catalog.Error,
	})
}

// filterProducts matches search against title and category, case-insensitively.
func filterProducts(items []domain.Product, search string) []domain.Product {
	if search == "" {
		return items
	}
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Title), search) || strings.Contains(strings.ToLower(p.Category), search) {
			out = append(out, p)
		}
	}
	return out
}

func positiveQueryInt(w http.ResponseWriter, raw string, defaultValue int, code, message string) (int, bool) {
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondError(w, http.StatusBadRequest, code, message)
		return 0, false
	}
	return n, true
}
