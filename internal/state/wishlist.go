package state

import (
	"slices"

	"github.com/fjod/shop-sphere/internal/domain"
)

type WishlistState struct {
	Items []domain.WishlistItem `json:"wishlistItems"`
}

func (s WishlistState) Count() int {
	return len(s.Items)
}

func (s WishlistState) Contains(id int64) bool {
	return wishlistIndex(s.Items, id) >= 0
}

func ReduceWishlist(s WishlistState, action Action) WishlistState {
	switch a := action.(type) {
	case AddToWishlist:
		if s.Contains(a.Product.ID) {
			return s
		}
		return WishlistState{Items: append(slices.Clone(s.Items), a.Product)}

	case RemoveFromWishlist:
		i := wishlistIndex(s.Items, a.ID)
		if i < 0 {
			return s
		}
		return WishlistState{Items: removeAt(s.Items, i)}

	case ToggleWishlist:
		if i := wishlistIndex(s.Items, a.Product.ID); i >= 0 {
			return WishlistState{Items: removeAt(s.Items, i)}
		}
		return WishlistState{Items: append(slices.Clone(s.Items), a.Product)}

	case ClearWishlist:
		return WishlistState{Items: []domain.WishlistItem{}}
	}
	return s
}

func wishlistIndex(items []domain.WishlistItem, id int64) int {
	return slices.IndexFunc(items, func(p domain.WishlistItem) bool {
		return p.ID == id
	})
}

func (s WishlistState) Find(id int64) (domain.WishlistItem, bool) {
	i := wishlistIndex(s.Items, id)
	if i < 0 {
		return domain.WishlistItem{}, false
	}
	return s.Items[i], true
}
