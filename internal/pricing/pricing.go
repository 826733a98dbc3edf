// Package pricing holds the pure price derivations over cart snapshots.
// Nothing here performs I/O or mutates its inputs.
package pricing

import (
	"math"

	"storefront-core/internal/domain"
)

// LineTotal returns unit price times quantity for a single line.
func LineTotal(item domain.LineItem) int64 {
	return item.UnitPriceCents * int64(item.Quantity)
}

// Subtotal sums line totals across the cart in order.
func Subtotal(items []domain.LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}

// Discount returns the promo deduction for a subtotal, rounded half-up
// to the nearest cent. A nil promo yields zero.
func Discount(subtotalCents int64, promo *domain.PromoCode) int64 {
	if promo == nil || promo.Fraction <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotalCents) * promo.Fraction))
}

// FinalTotal is subtotal minus discount, floored at zero. The promo table
// constrains fractions to [0,1] so underflow only happens on malformed
// input, and zero is the safe answer then.
func FinalTotal(subtotalCents, discountCents int64) int64 {
	total := subtotalCents - discountCents
	if total < 0 {
		return 0
	}
	return total
}

// TotalItemCount sums quantities across the cart.
func TotalItemCount(items []domain.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// BundleLine folds an N-pack promotion into a single line item. The
// bundle total is the base unit price times n, reduced by bundleDiscount,
// and the effective per-unit price is that total divided by n. Remainder
// cents from the division land on the computed total via the quantity
// multiplication, so a bundle line still prices as unit*quantity.
func BundleLine(base domain.LineItem, n int, bundleDiscount float64) domain.LineItem {
	if n <= 0 {
		n = 1
	}
	if bundleDiscount < 0 {
		bundleDiscount = 0
	}
	if bundleDiscount > 1 {
		bundleDiscount = 1
	}
	total := int64(math.Round(float64(base.UnitPriceCents) * float64(n) * (1 - bundleDiscount)))
	line := base
	line.Quantity = n
	line.UnitPriceCents = total / int64(n)
	return line
}
