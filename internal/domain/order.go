package domain

import "time"

// Order statuses. An order starts pending and moves forward only; the
// core never resurrects a cancelled order.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is the immutable record produced at checkout. Line prices are
// frozen at creation time and never re-derived from the catalog.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	Lines         []LineItem `json:"lineItems"`
	SubtotalCents int64      `json:"subtotalCents"`
	DiscountCents int64      `json:"discountCents"`
	TotalCents    int64      `json:"totalCents"`
	PromoCode     string     `json:"promoCode,omitempty"`
	Shipping      Address    `json:"shippingAddress"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Address holds the shipping destination collected at checkout.
type Address struct {
	FullName   string `json:"fullName"`
	StreetName string `json:"streetName"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}
