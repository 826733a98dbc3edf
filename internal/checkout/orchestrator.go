// Package checkout turns a cart snapshot into an order. The flow is a
// short state machine per submission: Idle -> Validating -> Submitting
// -> Confirmed, or Failed at either gate. Submission is not idempotent
// and never retried automatically; a failed attempt leaves the cart
// intact for a manual resubmit.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"storefront-core/internal/domain"
	"storefront-core/internal/events"
	"storefront-core/internal/payment"
	"storefront-core/internal/pricing"
	"storefront-core/internal/session"
)

// State names a submission's position in the lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

type orderCreator interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	SetStatus(ctx context.Context, id, status string) error
}

type recordCleaner interface {
	CleanupAfterCheckout(ctx context.Context, deviceID, userID string)
}

// SubmitInput carries the shipping destination collected from the form.
type SubmitInput struct {
	Shipping domain.Address
}

// Orchestrator coordinates validation, payment capture, order creation
// and post-confirmation cleanup.
type Orchestrator struct {
	orders   orderCreator
	payments payment.Provider
	cleaner  recordCleaner
	pub      events.Publisher
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New builds an Orchestrator.
func New(orders orderCreator, payments payment.Provider, cleaner recordCleaner, pub events.Publisher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		payments: payments,
		cleaner:  cleaner,
		pub:      pub,
		logger:   logger.Named("checkout"),
		now:      time.Now,
		newID:    func() string { return ulid.Make().String() },
	}
}

// Submit runs one checkout attempt for the session. On success the cart
// store is cleared and both persisted records are dropped. On failure
// the cart is left untouched.
func (o *Orchestrator) Submit(ctx context.Context, sess *session.Session, in SubmitInput) (*domain.Order, error) {
	if !sess.BeginCheckout() {
		return nil, domain.ErrCheckoutInFlight
	}
	defer sess.EndCheckout()

	state := StateValidating
	defer func() {
		o.logger.Debug("checkout finished", zap.String("state", string(state)))
	}()

	userID := sess.UserID()
	if userID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	snapshot := sess.Store().Snapshot()
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := validateShipping(in.Shipping); err != nil {
		return nil, err
	}

	// Submitting: freeze prices and totals, capture payment, persist.
	state = StateSubmitting
	promo := sess.Store().Promo()
	subtotal := pricing.Subtotal(snapshot)
	discount := pricing.Discount(subtotal, promo)
	total := pricing.FinalTotal(subtotal, discount)

	order := domain.Order{
		ID:            o.newID(),
		UserID:        userID,
		Lines:         snapshot,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    total,
		Shipping:      in.Shipping,
		Status:        domain.OrderStatusPending,
		CreatedAt:     o.now().UTC(),
	}
	if promo != nil {
		order.PromoCode = promo.Code
	}

	capture, err := o.payments.Capture(ctx, payment.CaptureInput{
		AmountCents: total,
		Currency:    "usd",
		Description: fmt.Sprintf("order %s", order.ID),
		UserID:      userID,
	})
	if err != nil {
		state = StateFailed
		o.logger.Warn("payment capture failed", zap.String("orderId", order.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderSubmission, err)
	}

	created, err := o.orders.Create(ctx, order)
	if err != nil {
		state = StateFailed
		o.logger.Warn("order create failed",
			zap.String("orderId", order.ID),
			zap.String("paymentRef", capture.Reference),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderSubmission, err)
	}

	// Confirmed. The status bump to processing is cosmetic next to the
	// captured payment, so its failure does not fail the checkout.
	state = StateConfirmed
	if err := o.orders.SetStatus(ctx, created.ID, domain.OrderStatusProcessing); err != nil {
		o.logger.Warn("order status update failed", zap.String("orderId", created.ID), zap.Error(err))
	} else {
		created.Status = domain.OrderStatusProcessing
	}

	sess.Store().Clear()
	o.cleaner.CleanupAfterCheckout(ctx, sess.DeviceID(), userID)
	o.pub.Publish(domain.TopicPurchase, domain.PurchaseEvent{
		OrderID:    created.ID,
		UserID:     userID,
		TotalCents: created.TotalCents,
		ItemCount:  pricing.TotalItemCount(created.Lines),
		At:         o.now().UTC(),
	})

	return created, nil
}

func validateShipping(a domain.Address) error {
	if strings.TrimSpace(a.FullName) == "" ||
		strings.TrimSpace(a.StreetName) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("%w: incomplete shipping address", domain.ErrOrderSubmission)
	}
	return nil
}
