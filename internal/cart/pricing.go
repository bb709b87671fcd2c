package cart

import "github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"

// Totals are the four derived numbers the storefront displays. Derivation
// is pure: same cart in, same totals out.
type Totals struct {
	Subtotal          float64 `json:"subtotal"`
	AfterPromo        float64 `json:"after_promo"`
	Total             float64 `json:"total"`
	TotalWithShipping float64 `json:"total_with_shipping"`
}

// Derive computes totals from the server-supplied cart fields:
//
//	subtotal   = original_price - item_discount
//	afterPromo = subtotal - promo_discount
//	total      = afterPromo + vat
//	withShip   = total + shipping_charge
//
// A nil or empty cart derives zero totals. AfterPromo may go negative when
// the promo discount exceeds the subtotal; it is not clamped here.
func Derive(c *storeapi.Cart) Totals {
	if c == nil {
		return Totals{}
	}
	subtotal := c.OriginalPrice - c.ItemDiscount
	afterPromo := subtotal - c.PromoDiscount
	total := afterPromo + c.VAT
	return Totals{
		Subtotal:          subtotal,
		AfterPromo:        afterPromo,
		Total:             total,
		TotalWithShipping: total + c.ShippingCharge,
	}
}

// BelowMinimum reports whether the cart fails the store's minimum-order
// threshold, judged on the pre-VAT, post-promo amount.
func BelowMinimum(c *storeapi.Cart) bool {
	if c == nil || c.MinOrderAmount <= 0 {
		return false
	}
	return Derive(c).AfterPromo < c.MinOrderAmount
}
