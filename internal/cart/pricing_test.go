package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

func TestDerive_FullFormula(t *testing.T) {
	c := &storeapi.Cart{
		OriginalPrice: 100,
		ItemDiscount:  20,
		PromoDiscount: 10,
		VAT:           5,
	}

	totals := Derive(c)

	assert.Equal(t, 80.0, totals.Subtotal)
	assert.Equal(t, 70.0, totals.AfterPromo)
	assert.Equal(t, 75.0, totals.Total)
	assert.Equal(t, 75.0, totals.TotalWithShipping)
}

func TestDerive_ShippingAddedLast(t *testing.T) {
	c := &storeapi.Cart{
		OriginalPrice:  200,
		ItemDiscount:   50,
		VAT:            15,
		ShippingCharge: 40,
	}

	totals := Derive(c)

	assert.Equal(t, 150.0, totals.Subtotal)
	assert.Equal(t, 150.0, totals.AfterPromo)
	assert.Equal(t, 165.0, totals.Total)
	assert.Equal(t, 205.0, totals.TotalWithShipping)
}

func TestDerive_EmptyCartDerivesZeroTotals(t *testing.T) {
	assert.Equal(t, Totals{}, Derive(&storeapi.Cart{}))
	assert.Equal(t, Totals{}, Derive(nil))
}

func TestDerive_PromoExceedingSubtotalIsNotClamped(t *testing.T) {
	c := &storeapi.Cart{
		OriginalPrice: 50,
		PromoDiscount: 80,
	}

	totals := Derive(c)

	assert.Equal(t, -30.0, totals.AfterPromo)
}

func TestDerive_IsIdempotent(t *testing.T) {
	c := &storeapi.Cart{
		OriginalPrice:  99.99,
		ItemDiscount:   9.99,
		PromoDiscount:  5,
		VAT:            8.5,
		ShippingCharge: 12,
	}

	assert.Equal(t, Derive(c), Derive(c))
}

func TestBelowMinimum(t *testing.T) {
	c := &storeapi.Cart{
		OriginalPrice:  100,
		PromoDiscount:  60,
		MinOrderAmount: 50,
	}
	assert.True(t, BelowMinimum(c))

	c.PromoDiscount = 0
	assert.False(t, BelowMinimum(c))

	// No threshold configured means nothing to fail.
	assert.False(t, BelowMinimum(&storeapi.Cart{}))
	assert.False(t, BelowMinimum(nil))
}
