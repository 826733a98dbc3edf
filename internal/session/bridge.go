package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"storefront-core/internal/domain"
	"storefront-core/internal/events"
	"storefront-core/internal/repository/devicecart"
	"storefront-core/internal/repository/usercart"
)

// Bridge synchronizes in-memory carts with their backing stores. It
// hydrates at load time, migrates an anonymous cart into the user's
// remote record exactly once at sign-in, and consumes cart.changed
// events for write-through. All storage failures are non-fatal: writes
// are logged and swallowed, reads degrade to an empty cart, and the
// in-memory store stays authoritative for the session.
type Bridge struct {
	local  devicecart.Repository
	remote usercart.Repository
	logger *zap.Logger
}

// NewBridge wires the two backing stores.
func NewBridge(local devicecart.Repository, remote usercart.Repository, logger *zap.Logger) *Bridge {
	return &Bridge{local: local, remote: remote, logger: logger.Named("bridge")}
}

// Run subscribes the write-through handler to the events bus.
func (b *Bridge) Run(ctx context.Context, bus *events.Bus) error {
	return bus.Subscribe(ctx, domain.TopicCartChanged, func(payload []byte) {
		var ev domain.CartChangedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			b.logger.Warn("decode cart.changed event", zap.Error(err))
			return
		}
		b.writeThrough(context.Background(), ev)
	})
}

func (b *Bridge) writeThrough(ctx context.Context, ev domain.CartChangedEvent) {
	kind, id := splitOwner(ev.OwnerKey)
	switch kind {
	case "device":
		// Never leave an empty-array record behind on a device.
		if len(ev.Items) == 0 {
			if err := b.local.Delete(ctx, id); err != nil {
				b.logger.Warn("delete local cart record", zap.String("deviceId", id), zap.Error(err))
			}
			return
		}
		if err := b.local.Set(ctx, id, ev.Items); err != nil {
			b.logger.Warn("write-through to local store", zap.String("deviceId", id), zap.Error(err))
		}
	case "user":
		if err := b.remote.Upsert(ctx, id, ev.Items); err != nil {
			b.logger.Warn("write-through to remote store", zap.String("userId", id), zap.Error(err))
		}
	default:
		b.logger.Warn("cart.changed event with unknown owner", zap.String("ownerKey", ev.OwnerKey))
	}
}

// LoadAnonymous hydrates from the local device record. A read failure is
// treated as "no stored cart".
func (b *Bridge) LoadAnonymous(ctx context.Context, deviceID string) []domain.LineItem {
	items, err := b.local.Get(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			b.logger.Warn("read local cart record", zap.String("deviceId", deviceID), zap.Error(err))
		}
		return nil
	}
	return items
}

// LoadAuthenticated hydrates the cart for a signed-in user. When the
// remote record already holds items it wins and any stale local cart is
// discarded; when it is empty or absent, a non-empty local cart migrates
// into the remote record once and the local record is deleted.
func (b *Bridge) LoadAuthenticated(ctx context.Context, deviceID, userID string) []domain.LineItem {
	remote, err := b.remote.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		b.logger.Warn("read remote cart record", zap.String("userId", userID), zap.Error(err))
		return nil
	}
	if len(remote) > 0 {
		return remote
	}

	local := b.LoadAnonymous(ctx, deviceID)
	if len(local) == 0 {
		return nil
	}
	if err := b.remote.Upsert(ctx, userID, local); err != nil {
		b.logger.Warn("migrate local cart to remote store", zap.String("userId", userID), zap.Error(err))
		return local
	}
	if err := b.local.Delete(ctx, deviceID); err != nil {
		b.logger.Warn("delete local cart record after migration", zap.String("deviceId", deviceID), zap.Error(err))
	}
	return local
}

// CleanupAfterCheckout drops both persisted records once an order is
// confirmed.
func (b *Bridge) CleanupAfterCheckout(ctx context.Context, deviceID, userID string) {
	if deviceID != "" {
		if err := b.local.Delete(ctx, deviceID); err != nil {
			b.logger.Warn("delete local cart record after checkout", zap.String("deviceId", deviceID), zap.Error(err))
		}
	}
	if userID != "" {
		if err := b.remote.Clear(ctx, userID); err != nil {
			b.logger.Warn("clear remote cart record after checkout", zap.String("userId", userID), zap.Error(err))
		}
	}
}
