package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/effects"
	"github.com/fjod/shop-sphere/internal/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Store interface {
	Dispatch(action state.Action) state.AppState
	Snapshot() state.AppState
}

// CatalogEffects is implemented by *effects.Catalog.
type CatalogEffects interface {
	FetchProducts(ctx context.Context) state.AppState
	FetchProductDetails(ctx context.Context, id int64) (domain.Product, state.AppState, error)
	FetchCategories(ctx context.Context) state.AppState
	FetchProductsByCategory(ctx context.Context, name string) state.AppState
	LookupProduct(ctx context.Context, id int64) (domain.Product, error)
}

// AuthEffects is implemented by *effects.Auth.
type AuthEffects interface {
	Login(ctx context.Context, creds domain.Credentials) state.AppState
	Signup(ctx context.Context, data domain.SignUpData) effects.SignupResult
	Logout() state.AppState
}

type Deps struct {
	Store          Store
	Catalog        CatalogEffects
	Auth           AuthEffects
	Log            *zap.Logger
	RequestTimeout time.Duration
	MaxBodySize    int64
}

func NewRouter(d Deps) http.Handler {
	products := NewProductHandler(d.Store, d.Catalog, d.RequestTimeout)
	cart := NewCartHandler(d.Store, d.Catalog, d.RequestTimeout, d.MaxBodySize)
	wishlist := NewWishlistHandler(d.Store, d.Catalog, d.RequestTimeout, d.MaxBodySize)
	auth := NewAuthHandler(d.Store, d.Auth, d.RequestTimeout, d.MaxBodySize)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(d.Log))
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Delete("/selected", products.ClearSelected)
			r.Get("/{id}", products.Get)
		})
		r.Get("/categories", products.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.Get)
			r.Delete("/", cart.Clear)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{id}", cart.UpdateQuantity)
			r.Delete("/items/{id}", cart.RemoveItem)
			r.Post("/items/{id}/increase", cart.Increase)
			r.Post("/items/{id}/decrease", cart.Decrease)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlist.Get)
			r.Delete("/", wishlist.Clear)
			r.Post("/items", wishlist.AddItem)
			r.Delete("/items/{id}", wishlist.RemoveItem)
			r.Post("/items/{id}/toggle", wishlist.Toggle)
			r.Post("/items/{id}/move-to-cart", wishlist.MoveToCart)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", auth.Session)
			r.Post("/login", auth.Login)
			r.Post("/signup", auth.Signup)
			r.Post("/logout", auth.Logout)
			r.Delete("/error", auth.ClearError)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
