package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAuthenticationRequired is returned when checkout is attempted
	// without a signed-in user.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrOrderSubmission wraps failures from the order persistence
	// collaborator; the cart is left intact so the caller can resubmit.
	ErrOrderSubmission = errors.New("order submission failed")
	// ErrCheckoutInFlight is returned when a submission is already running
	// for the session.
	ErrCheckoutInFlight = errors.New("checkout already in flight")
	// ErrInvalidPromoCode is returned for codes missing from the promo table.
	ErrInvalidPromoCode = errors.New("invalid promo code")
)
