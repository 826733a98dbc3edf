package domain

import "time"

// Event topics carried on the in-process bus. The Cart Store publishes,
// side-effecting subscribers (persistence write-through, analytics)
// consume independently.
const (
	TopicCartItemAdded   = "cart.item_added"
	TopicCartItemRemoved = "cart.item_removed"
	TopicCartChanged     = "cart.changed"
	TopicPurchase        = "checkout.purchase"
)

// ItemAddedEvent signals that a line was added or its quantity bumped.
type ItemAddedEvent struct {
	OwnerKey    string    `json:"ownerKey"`
	ItemID      string    `json:"itemId"`
	Variant     string    `json:"variant,omitempty"`
	DisplayName string    `json:"displayName"`
	Quantity    int       `json:"quantity"`
	At          time.Time `json:"at"`
}

// ItemRemovedEvent signals that a line left the cart.
type ItemRemovedEvent struct {
	OwnerKey string    `json:"ownerKey"`
	ItemID   string    `json:"itemId"`
	Variant  string    `json:"variant,omitempty"`
	At       time.Time `json:"at"`
}

// CartChangedEvent carries the full post-mutation snapshot for
// write-through. An empty Items slice means the backing record should be
// deleted, not stored as an empty array.
type CartChangedEvent struct {
	OwnerKey string     `json:"ownerKey"`
	Items    []LineItem `json:"items"`
	At       time.Time  `json:"at"`
}

// PurchaseEvent is the best-effort analytics signal emitted after a
// confirmed checkout.
type PurchaseEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	TotalCents int64     `json:"totalCents"`
	ItemCount  int       `json:"itemCount"`
	At         time.Time `json:"at"`
}
