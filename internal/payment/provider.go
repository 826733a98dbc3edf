// Package payment abstracts payment capture behind a provider interface.
// The storefront checkout does not run a full payment state machine: a
// capture either succeeds synchronously or the whole submission fails and
// the user resubmits.
package payment

import "context"

// CaptureInput describes the single charge taken at checkout.
type CaptureInput struct {
	AmountCents int64
	Currency    string
	Description string
	UserID      string
}

// CaptureResult carries the provider's reference for the charge.
type CaptureResult struct {
	Reference string
}

// Provider captures payment for an order total.
type Provider interface {
	Capture(ctx context.Context, in CaptureInput) (CaptureResult, error)
}
