package httpserver

import (
	"github.com/gin-gonic/gin"

	"storefront-core/internal/cart"
	"storefront-core/internal/domain"
	"storefront-core/internal/pricing"
)

func errorBody(message string) gin.H {
	return gin.H{"error": message}
}

// cartView is the derived cart representation every cart route returns:
// the ordered lines plus the totals the pricing calculator produces.
type cartView struct {
	Items         []domain.LineItem `json:"items"`
	TotalItems    int               `json:"totalItems"`
	SubtotalCents int64             `json:"subtotalCents"`
	DiscountCents int64             `json:"discountCents"`
	TotalCents    int64             `json:"totalCents"`
	PromoCode     string            `json:"promoCode,omitempty"`
}

func viewOf(store *cart.Store) cartView {
	items := store.Snapshot()
	if items == nil {
		items = []domain.LineItem{}
	}
	promo := store.Promo()
	subtotal := pricing.Subtotal(items)
	discount := pricing.Discount(subtotal, promo)
	view := cartView{
		Items:         items,
		TotalItems:    pricing.TotalItemCount(items),
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    pricing.FinalTotal(subtotal, discount),
	}
	if promo != nil {
		view.PromoCode = promo.Code
	}
	return view
}
