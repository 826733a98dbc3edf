package pricing

import (
	"testing"

	"storefront-core/internal/domain"
)

func TestSubtotalAndDiscount(t *testing.T) {
	items := []domain.LineItem{
		{ItemID: "a", UnitPriceCents: 1000, Quantity: 2},
		{ItemID: "b", UnitPriceCents: 500, Quantity: 1},
	}

	subtotal := Subtotal(items)
	if subtotal != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", subtotal)
	}

	promo := &domain.PromoCode{Code: "WELCOME10", Fraction: 0.10}
	discount := Discount(subtotal, promo)
	if discount != 250 {
		t.Fatalf("expected discount 250, got %d", discount)
	}

	if total := FinalTotal(subtotal, discount); total != 2250 {
		t.Fatalf("expected final total 2250, got %d", total)
	}
}

func TestDiscountWithoutPromo(t *testing.T) {
	if d := Discount(2500, nil); d != 0 {
		t.Fatalf("expected zero discount, got %d", d)
	}
	if d := Discount(2500, &domain.PromoCode{Fraction: 0}); d != 0 {
		t.Fatalf("expected zero discount for zero fraction, got %d", d)
	}
}

func TestFinalTotalNeverNegative(t *testing.T) {
	if total := FinalTotal(100, 200); total != 0 {
		t.Fatalf("expected floor at zero, got %d", total)
	}
}

func TestLineTotal(t *testing.T) {
	item := domain.LineItem{UnitPriceCents: 799, Quantity: 3}
	if got := LineTotal(item); got != 2397 {
		t.Fatalf("expected 2397, got %d", got)
	}
}

func TestTotalItemCount(t *testing.T) {
	items := []domain.LineItem{
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 5},
	}
	if got := TotalItemCount(items); got != 7 {
		t.Fatalf("expected 7 items, got %d", got)
	}
	if got := TotalItemCount(nil); got != 0 {
		t.Fatalf("expected 0 for empty cart, got %d", got)
	}
}

func TestBundleLine(t *testing.T) {
	base := domain.LineItem{ItemID: "coffee", DisplayName: "Coffee", UnitPriceCents: 1500, Quantity: 1}

	bundle := BundleLine(base, 3, 0.20)
	if bundle.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", bundle.Quantity)
	}
	// 1500 * 3 * 0.8 = 3600, per unit 1200.
	if bundle.UnitPriceCents != 1200 {
		t.Fatalf("expected per-unit 1200, got %d", bundle.UnitPriceCents)
	}
	if LineTotal(bundle) != 3600 {
		t.Fatalf("expected bundle total 3600, got %d", LineTotal(bundle))
	}

	// Zero-discount bundle keeps the base unit price.
	plain := BundleLine(base, 2, 0)
	if plain.UnitPriceCents != 1500 {
		t.Fatalf("expected per-unit 1500, got %d", plain.UnitPriceCents)
	}
}
