package state

import (
	"sync"

	"github.com/fjod/shop-sphere/internal/domain"
)

type AppState struct {
	Cart     CartState          `json:"cart"`
	Wishlist WishlistState      `json:"wishlist"`
	Catalog  CatalogState       `json:"products"`
	Auth     domain.AuthSession `json:"auth"`
}

// NewAppState returns the state of a shopper with nothing stored.
func NewAppState() AppState {
	return AppState{
		Cart:     newCart([]domain.CartLineItem{}),
		Wishlist: WishlistState{Items: []domain.WishlistItem{}},
		Catalog: CatalogState{
			Items:      []domain.Product{},
			Categories: []string{},
			Status:     domain.StatusIdle,
		},
		Auth: domain.AuthSession{Status: domain.StatusIdle},
	}
}

// Reduce runs every slice reducer. Slices that ignore the action come back unchanged.
func Reduce(s AppState, action Action) AppState {
	return AppState{
		Cart:     ReduceCart(s.Cart, action),
		Wishlist: ReduceWishlist(s.Wishlist, action),
		Catalog:  ReduceCatalog(s.Catalog, action),
		Auth:     ReduceAuth(s.Auth, action),
	}
}

// Subscriber observes every dispatch. It runs under the store lock and must not dispatch.
type Subscriber func(prev, next AppState, action Action)

type Store struct {
	mu          sync.Mutex
	state       AppState
	subscribers []Subscriber
}

func NewStore(initial AppState) *Store {
	return &Store{state: initial}
}

func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch reduces the action and notifies subscribers before returning, so a caller
// that gets the new state back also knows every subscriber has seen it.
func (s *Store) Dispatch(action Action) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	for _, fn := range s.subscribers {
		fn(prev, next, action)
	}
	return next
}

// Snapshot is safe to read without holding anything: reducers never mutate slices
// they were given.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
