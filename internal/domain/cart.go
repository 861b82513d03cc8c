package domain

import "github.com/shopspring/decimal"

// CartLineItem is a product in the cart. The product fields are flattened into the
// JSON form so a persisted line item reads like the product plus cartQuantity.
type CartLineItem struct {
	Product
	CartQuantity int `json:"cartQuantity"`
}

// CartTotals is derived from the line items and never set on its own.
type CartTotals struct {
	Quantity int             `json:"cartTotalQuantity"`
	Amount   decimal.Decimal `json:"cartTotalAmount"`
}

type WishlistItem = Product
