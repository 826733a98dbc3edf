// Package analytics is the fire-and-forget analytics collaborator. It
// consumes cart and purchase events off the bus and forwards them to the
// tracking sink; nothing here ever surfaces an error to a cart mutation
// or a checkout.
package analytics

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"storefront-core/internal/domain"
	"storefront-core/internal/events"
)

// Notifier is the boundary contract: Notify must never panic or block
// meaningfully, whatever the payload.
type Notifier interface {
	Notify(event string, payload interface{})
}

// Tracker logs analytics signals through zap. A real deployment would
// swap the sink for an external tracker client behind the same Notifier.
type Tracker struct {
	logger *zap.Logger
}

// NewTracker builds a Tracker.
func NewTracker(logger *zap.Logger) *Tracker {
	return &Tracker{logger: logger.Named("analytics")}
}

// Notify records a single signal. Marshal failures are absorbed.
func (t *Tracker) Notify(event string, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("analytics notify panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Warn("analytics payload marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	t.logger.Info("analytics signal", zap.String("event", event), zap.ByteString("payload", data))
}

// Run subscribes the tracker to the bus topics it cares about.
func (t *Tracker) Run(ctx context.Context, bus *events.Bus) error {
	topics := map[string]string{
		domain.TopicCartItemAdded:   "item added to cart",
		domain.TopicCartItemRemoved: "item removed from cart",
		domain.TopicPurchase:        "purchase",
	}
	for topic, event := range topics {
		event := event
		if err := bus.Subscribe(ctx, topic, func(payload []byte) {
			t.Notify(event, json.RawMessage(payload))
		}); err != nil {
			return err
		}
	}
	return nil
}
