package state

import (
	"slices"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/shopspring/decimal"
)

type CartState struct {
	Items []domain.CartLineItem `json:"cartItems"`
	domain.CartTotals
}

// ReduceCart never touches s.Items in place; every change produces a new slice and
// fresh totals. Actions that do not apply return s unchanged.
func ReduceCart(s CartState, action Action) CartState {
	switch a := action.(type) {
	case AddToCart:
		if cartIndex(s.Items, a.Product.ID) >= 0 {
			return s
		}
		items := append(slices.Clone(s.Items), domain.CartLineItem{Product: a.Product, CartQuantity: 1})
		return newCart(items)

	case IncreaseCart:
		i := cartIndex(s.Items, a.ID)
		if i < 0 {
			return s
		}
		items := slices.Clone(s.Items)
		items[i].CartQuantity++
		return newCart(items)

	case DecreaseCart:
		i := cartIndex(s.Items, a.ID)
		if i < 0 {
			return s
		}
		if s.Items[i].CartQuantity > 1 {
			items := slices.Clone(s.Items)
			items[i].CartQuantity--
			return newCart(items)
		}
		return newCart(removeAt(s.Items, i))

	case UpdateCartQuantity:
		i := cartIndex(s.Items, a.ID)
		if i < 0 {
			return s
		}
		if a.Quantity <= 0 {
			return newCart(removeAt(s.Items, i))
		}
		items := slices.Clone(s.Items)
		items[i].CartQuantity = a.Quantity
		return newCart(items)

	case RemoveFromCart:
		i := cartIndex(s.Items, a.ID)
		if i < 0 {
			return s
		}
		return newCart(removeAt(s.Items, i))

	case ClearCart:
		return newCart([]domain.CartLineItem{})

	case GetTotals:
		return CartState{Items: s.Items, CartTotals: ComputeTotals(s.Items)}
	}
	return s
}

// ComputeTotals sums quantities and price x quantity, rounding the amount to cents.
func ComputeTotals(items []domain.CartLineItem) domain.CartTotals {
	totals := domain.CartTotals{Amount: decimal.Zero}
	for _, item := range items {
		totals.Quantity += item.CartQuantity
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.CartQuantity)))
		totals.Amount = totals.Amount.Add(line)
	}
	totals.Amount = totals.Amount.Round(2)
	return totals
}

func (s CartState) Find(id int64) (domain.CartLineItem, bool) {
	i := cartIndex(s.Items, id)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	return s.Items[i], true
}

func newCart(items []domain.CartLineItem) CartState {
	return CartState{Items: items, CartTotals: ComputeTotals(items)}
}

func cartIndex(items []domain.CartLineItem, id int64) int {
	return slices.IndexFunc(items, func(item domain.CartLineItem) bool {
		return item.ID == id
	})
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
