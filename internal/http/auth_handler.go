package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
	"github.com/fjod/shop-sphere/internal/validation"
)

type AuthHandler struct {
	store       Store
	auth        AuthEffects
	timeout     time.Duration
	maxBodySize int64
}

func NewAuthHandler(store Store, auth AuthEffects, timeout time.Duration, maxBodySize int64) *AuthHandler {
	return &AuthHandler{
		store:       store,
		auth:        auth,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type SignupResponse struct {
	RegisteredID int64              `json:"registered_id,omitempty"`
	LoggedInAs   string             `json:"logged_in_as,omitempty"`
	Session      domain.AuthSession `json:"session"`
}

// GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Snapshot().Auth)
}

// POST /api/v1/auth/login
// A rejected login is still a 200: the session carries the failed status and message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeJSON(w, r, h.maxBodySize, &creds) {
		return
	}
	if errs := validation.Login(creds); !errs.Valid() {
		respondValidation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	next := h.auth.Login(ctx, creds)
	respondJSON(w, http.StatusOK, next.Auth)
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var form validation.SignupForm
	if !decodeJSON(w, r, h.maxBodySize, &form) {
		return
	}
	if errs := validation.Signup(form); !errs.Valid() {
		respondValidation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result := h.auth.Signup(ctx, form.SignUpData())
	respondJSON(w, http.StatusOK, SignupResponse{
		RegisteredID: result.RegisteredID,
		LoggedInAs:   result.LoggedInAs,
		Session:      result.State.Auth,
	})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.auth.Logout().Auth)
}

// DELETE /api/v1/auth/error
func (h *AuthHandler) ClearError(w http.ResponseWriter, _ *http.Request) {
	next := h.store.Dispatch(state.ClearAuthError{})
	respondJSON(w, http.StatusOK, next.Auth)
}
