package persist

import (
	"context"
	"slices"
	"time"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
	"github.com/fjod/shop-sphere/internal/storage"
	"go.uber.org/zap"
)

const (
	KeyCart     = "cartItems"
	KeyWishlist = "wishlistItems"
	KeyToken    = "userToken"
	KeyUsername = "userName"
)

const writeTimeout = 5 * time.Second

// Persister mirrors the cart, wishlist and session into durable storage.
type Persister struct {
	cart     *storage.Collection[domain.CartLineItem]
	wishlist *storage.Collection[domain.WishlistItem]
	token    *storage.Value[string]
	username *storage.Value[string]
	log      *zap.Logger
}

func New(store storage.Store, log *zap.Logger) *Persister {
	return &Persister{
		cart:     storage.NewCollection[domain.CartLineItem](store, KeyCart, log),
		wishlist: storage.NewCollection[domain.WishlistItem](store, KeyWishlist, log),
		token:    storage.NewValue[string](store, KeyToken, log),
		username: storage.NewValue[string](store, KeyUsername, log),
		log:      log,
	}
}

// Hydrate builds the state a shopper starts with. Unreadable entries start empty.
func (p *Persister) Hydrate(ctx context.Context) state.AppState {
	s := state.NewAppState()

	s.Cart = state.ReduceCart(state.CartState{Items: p.cart.Load(ctx)}, state.GetTotals{})
	s.Wishlist = state.WishlistState{Items: p.wishlist.Load(ctx)}

	token, _ := p.token.Load(ctx)
	username, _ := p.username.Load(ctx)
	s.Auth = state.NewSession(token, username)

	p.log.Info("state hydrated from storage",
		zap.Int("cart_items", len(s.Cart.Items)),
		zap.Int("wishlist_items", len(s.Wishlist.Items)),
		zap.Bool("authenticated", s.Auth.Authenticated),
	)
	return s
}

// Observe is a state.Subscriber. Write failures are logged and the in-memory state is kept.
func (p *Persister) Observe(prev, next state.AppState, action state.Action) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if !slices.Equal(prev.Cart.Items, next.Cart.Items) {
		if err := p.cart.Save(ctx, next.Cart.Items); err != nil {
			p.warn(action, KeyCart, err)
		}
	}

	if !slices.Equal(prev.Wishlist.Items, next.Wishlist.Items) {
		if err := p.wishlist.Save(ctx, next.Wishlist.Items); err != nil {
			p.warn(action, KeyWishlist, err)
		}
	}

	if prev.Auth.Token == next.Auth.Token && prev.Auth.Username == next.Auth.Username {
		return
	}
	if next.Auth.Token == "" {
		if err := p.token.Remove(ctx); err != nil {
			p.warn(action, KeyToken, err)
		}
		if err := p.username.Remove(ctx); err != nil {
			p.warn(action, KeyUsername, err)
		}
		return
	}
	if err := p.token.Save(ctx, next.Auth.Token); err != nil {
		p.warn(action, KeyToken, err)
	}
	if err := p.username.Save(ctx, next.Auth.Username); err != nil {
		p.warn(action, KeyUsername, err)
	}
}

func (p *Persister) warn(action state.Action, key string, err error) {
	p.log.Warn("storage write failed, keeping in-memory state",
		zap.String("action", action.Type()),
		zap.String("key", key),
		zap.Error(err),
	)
}
