package state

import "github.com/fjod/shop-sphere/internal/domain"

// Action is an intent handed to Store.Dispatch.
type Action interface {
	Type() string
}

// Cart

type AddToCart struct{ Product domain.Product }
type IncreaseCart struct{ ID int64 }
type DecreaseCart struct{ ID int64 }
type UpdateCartQuantity struct {
	ID       int64
	Quantity int
}
type RemoveFromCart struct{ ID int64 }
type ClearCart struct{}
type GetTotals struct{}

func (AddToCart) Type() string          { return "cart/addToCart" }
func (IncreaseCart) Type() string       { return "cart/increaseCart" }
func (DecreaseCart) Type() string       { return "cart/decreaseCart" }
func (UpdateCartQuantity) Type() string { return "cart/updateCartQuantity" }
func (RemoveFromCart) Type() string     { return "cart/removeFromCart" }
func (ClearCart) Type() string          { return "cart/clearCart" }
func (GetTotals) Type() string          { return "cart/getTotals" }

// Wishlist

type AddToWishlist struct{ Product domain.Product }
type RemoveFromWishlist struct{ ID int64 }
type ToggleWishlist struct{ Product domain.Product }
type ClearWishlist struct{}

func (AddToWishlist) Type() string      { return "wishlist/addToWishlist" }
func (RemoveFromWishlist) Type() string { return "wishlist/removeFromWishlist" }
func (ToggleWishlist) Type() string     { return "wishlist/toggleWishlist" }
func (ClearWishlist) Type() string      { return "wishlist/clearWishlist" }

// Catalog

type FetchKind string

const (
	FetchAll        FetchKind = "all-products"
	FetchByID       FetchKind = "by-id"
	FetchCategories FetchKind = "categories"
	FetchByCategory FetchKind = "by-category"
)

type FetchPending struct{ Kind FetchKind }

// ProductsFetched carries the result of FetchAll or FetchByCategory.
type ProductsFetched struct {
	Kind  FetchKind
	Items []domain.Product
}
type ProductFetched struct{ Product domain.Product }
type CategoriesFetched struct{ Categories []string }

// FetchFailed records a failed fetch. An empty Message is replaced by the kind's fallback.
type FetchFailed struct {
	Kind    FetchKind
	Message string
}
type ClearSelectedProduct struct{}

func (FetchPending) Type() string         { return "products/pending" }
func (ProductsFetched) Type() string      { return "products/fetched" }
func (ProductFetched) Type() string       { return "products/detailsFetched" }
func (CategoriesFetched) Type() string    { return "products/categoriesFetched" }
func (FetchFailed) Type() string          { return "products/rejected" }
func (ClearSelectedProduct) Type() string { return "products/clearSelectedProduct" }

// Auth

type AuthOp string

const (
	OpLogin    AuthOp = "login"
	OpRegister AuthOp = "register"
)

type AuthPending struct{ Op AuthOp }
type LoginSucceeded struct {
	Token    string
	Username string
}
type RegisterSucceeded struct{}
type AuthFailed struct {
	Op      AuthOp
	Message string
}
type Logout struct{}
type ClearAuthError struct{}

func (AuthPending) Type() string       { return "auth/pending" }
func (LoginSucceeded) Type() string    { return "auth/loginSucceeded" }
func (RegisterSucceeded) Type() string { return "auth/registerSucceeded" }
func (AuthFailed) Type() string        { return "auth/rejected" }
func (Logout) Type() string            { return "auth/logout" }
func (ClearAuthError) Type() string    { return "auth/clearAuthError" }
