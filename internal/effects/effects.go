package effects

import (
	"context"

	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
)

// CatalogClient is the part of catalog.Client the product tasks need.
type CatalogClient interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, name string) ([]domain.Product, error)
}

type AuthClient interface {
	Login(ctx context.Context, creds domain.Credentials) (*catalog.LoginResponse, error)
	Register(ctx context.Context, data domain.SignUpData) (*catalog.RegisterResponse, error)
}

// Dispatcher is satisfied by *state.Store.
type Dispatcher interface {
	Dispatch(action state.Action) state.AppState
	Snapshot() state.AppState
}
