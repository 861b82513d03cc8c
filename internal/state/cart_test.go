package state

import (
	"testing"

	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price float64) domain.Product {
	return domain.Product{ID: id, Title: "Product", Price: price, Category: "electronics"}
}

func applyCart(actions ...Action) CartState {
	s := NewAppState().Cart
	for _, a := range actions {
		s = ReduceCart(s, a)
	}
	return s
}

func quantities(s CartState) map[int64]int {
	out := make(map[int64]int, len(s.Items))
	for _, item := range s.Items {
		out[item.ID] = item.CartQuantity
	}
	return out
}

func TestReduceCart_AddDistinctProducts(t *testing.T) {
	s := applyCart(
		AddToCart{Product: product(1, 10)},
		AddToCart{Product: product(2, 20)},
		AddToCart{Product: product(3, 30)},
	)

	require.Len(t, s.Items, 3)
	for _, item := range s.Items {
		assert.Equal(t, 1, item.CartQuantity)
	}
}

func TestReduceCart_AddIsIdempotent(t *testing.T) {
	s := applyCart(
		AddToCart{Product: product(1, 10)},
		AddToCart{Product: product(1, 10)},
	)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].CartQuantity)
}

func TestReduceCart_Decrease(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    map[int64]int
	}{
		{
			name:    "quantity above one decrements",
			actions: []Action{AddToCart{Product: product(1, 10)}, IncreaseCart{ID: 1}, IncreaseCart{ID: 1}, DecreaseCart{ID: 1}},
			want:    map[int64]int{1: 2},
		},
		{
			name:    "quantity of one removes",
			actions: []Action{AddToCart{Product: product(1, 10)}, AddToCart{Product: product(2, 5)}, DecreaseCart{ID: 1}},
			want:    map[int64]int{2: 1},
		},
		{
			name:    "missing id is a no-op",
			actions: []Action{AddToCart{Product: product(1, 10)}, DecreaseCart{ID: 99}},
			want:    map[int64]int{1: 1},
		},
		{
			name:    "empty cart",
			actions: []Action{DecreaseCart{ID: 1}},
			want:    map[int64]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quantities(applyCart(tt.actions...)))
		})
	}
}

func TestReduceCart_UpdateQuantity(t *testing.T) {
	base := []Action{AddToCart{Product: product(1, 10)}, AddToCart{Product: product(2, 5)}}

	t.Run("positive sets exact value", func(t *testing.T) {
		s := applyCart(append(base, UpdateCartQuantity{ID: 1, Quantity: 7})...)
		assert.Equal(t, map[int64]int{1: 7, 2: 1}, quantities(s))
		assert.Equal(t, 8, s.Quantity)
	})

	t.Run("zero equals remove", func(t *testing.T) {
		updated := applyCart(append(base, UpdateCartQuantity{ID: 1, Quantity: 0})...)
		removed := applyCart(append(base, RemoveFromCart{ID: 1})...)
		assert.Equal(t, removed, updated)
	})

	t.Run("negative removes", func(t *testing.T) {
		s := applyCart(append(base, UpdateCartQuantity{ID: 2, Quantity: -3})...)
		assert.Equal(t, map[int64]int{1: 1}, quantities(s))
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		s := applyCart(append(base, UpdateCartQuantity{ID: 42, Quantity: 3})...)
		assert.Equal(t, map[int64]int{1: 1, 2: 1}, quantities(s))
	})
}

func TestReduceCart_RemoveAndClear(t *testing.T) {
	s := applyCart(AddToCart{Product: product(1, 10)}, AddToCart{Product: product(2, 5)}, RemoveFromCart{ID: 1})
	assert.Equal(t, map[int64]int{2: 1}, quantities(s))

	s = ReduceCart(s, ClearCart{})
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
	assert.Zero(t, s.Quantity)
	assert.True(t, s.Amount.IsZero())
}

func TestReduceCart_Scenario(t *testing.T) {
	s := applyCart(
		AddToCart{Product: product(1, 10)},
		AddToCart{Product: product(2, 5)},
		IncreaseCart{ID: 1},
	)

	require.Len(t, s.Items, 2)
	assert.Equal(t, int64(1), s.Items[0].ID)
	assert.Equal(t, 2, s.Items[0].CartQuantity)
	assert.Equal(t, int64(2), s.Items[1].ID)
	assert.Equal(t, 1, s.Items[1].CartQuantity)
	assert.Equal(t, 3, s.Quantity)
	assert.Equal(t, "25.00", s.Amount.StringFixed(2))
}

func TestComputeTotals(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		totals := ComputeTotals(nil)
		assert.Zero(t, totals.Quantity)
		assert.True(t, totals.Amount.IsZero())
	})

	t.Run("rounds to cents", func(t *testing.T) {
		totals := ComputeTotals([]domain.CartLineItem{
			{Product: product(1, 0.1), CartQuantity: 3},
			{Product: product(2, 109.95), CartQuantity: 2},
			{Product: product(3, 22.3), CartQuantity: 1},
		})
		assert.Equal(t, 6, totals.Quantity)
		assert.True(t, decimal.RequireFromString("242.50").Equal(totals.Amount), totals.Amount.String())
	})

	t.Run("fractional cents round half up", func(t *testing.T) {
		totals := ComputeTotals([]domain.CartLineItem{{Product: product(1, 0.125), CartQuantity: 1}})
		assert.Equal(t, "0.13", totals.Amount.StringFixed(2))
	})
}

func TestReduceCart_GetTotals(t *testing.T) {
	stale := CartState{Items: []domain.CartLineItem{{Product: product(1, 4.5), CartQuantity: 2}}}

	s := ReduceCart(stale, GetTotals{})
	assert.Equal(t, 2, s.Quantity)
	assert.Equal(t, "9.00", s.Amount.StringFixed(2))
}

func TestReduceCart_DoesNotMutateInput(t *testing.T) {
	before := applyCart(AddToCart{Product: product(1, 10)}, AddToCart{Product: product(2, 5)})
	snapshot := append([]domain.CartLineItem(nil), before.Items...)

	ReduceCart(before, IncreaseCart{ID: 1})
	ReduceCart(before, DecreaseCart{ID: 2})
	ReduceCart(before, UpdateCartQuantity{ID: 1, Quantity: 9})
	ReduceCart(before, RemoveFromCart{ID: 1})
	ReduceCart(before, AddToCart{Product: product(3, 1)})

	assert.Equal(t, snapshot, before.Items)
}

func TestReduceCart_IgnoresOtherActions(t *testing.T) {
	before := applyCart(AddToCart{Product: product(1, 10)})
	after := ReduceCart(before, AddToWishlist{Product: product(2, 5)})
	assert.Equal(t, before, after)
}
