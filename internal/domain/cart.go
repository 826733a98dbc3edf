package domain

// LineItem is one product/variant entry in a cart. The pair (ItemID,
// Variant) is the uniqueness key; an empty Variant means the default
// variant.
type LineItem struct {
	ItemID         string            `json:"itemId"`
	Variant        string            `json:"variant,omitempty"`
	DisplayName    string            `json:"displayName"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	Quantity       int               `json:"quantity"`
	ImageRef       string            `json:"imageRef,omitempty"`
	Subscription   *SubscriptionMeta `json:"subscription,omitempty"`
}

// SubscriptionMeta is opaque pass-through data attached to subscription
// products. The cart core never interprets it.
type SubscriptionMeta struct {
	Tier    string `json:"tier,omitempty"`
	Cadence string `json:"cadence,omitempty"`
}

// Key returns the uniqueness key of the line within a cart.
func (l LineItem) Key() LineKey {
	return LineKey{ItemID: l.ItemID, Variant: l.Variant}
}

// LineKey identifies a line inside a cart.
type LineKey struct {
	ItemID  string
	Variant string
}

// CloneLines deep-copies a line item slice, including subscription
// metadata, so snapshots never observe later mutations.
func CloneLines(lines []LineItem) []LineItem {
	if lines == nil {
		return nil
	}
	out := make([]LineItem, len(lines))
	copy(out, lines)
	for i := range out {
		if out[i].Subscription != nil {
			meta := *out[i].Subscription
			out[i].Subscription = &meta
		}
	}
	return out
}
