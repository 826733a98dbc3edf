// Package events provides the in-process pub/sub bus that decouples cart
// mutations from their side effects. The Cart Store publishes domain
// events; persistence write-through and analytics consume them on their
// own goroutines, so a slow or failing subscriber never blocks a
// mutation.
package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Publisher is the narrow interface producers depend on.
type Publisher interface {
	Publish(topic string, payload interface{})
}

// Bus wraps a Watermill gochannel pub/sub. Publish is fire-and-forget:
// marshal or delivery problems are logged and swallowed.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *zap.Logger
}

// NewBus builds a Bus backed by an in-memory transport.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, newWatermillLogger(logger)),
		logger: logger,
	}
}

// Publish serializes the payload to JSON and hands it to the transport.
// It never returns an error to the caller.
func (b *Bus) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Warn("event marshal failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.logger.Warn("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Subscribe registers a handler for a topic. The handler runs on a
// dedicated goroutine until ctx is cancelled; every message is acked
// regardless of handler outcome, because subscribers own their failure
// handling (log and move on).
func (b *Bus) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	go func() {
		for msg := range messages {
			handler(msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}

// Close shuts down the transport and terminates subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
