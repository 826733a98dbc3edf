package devicecart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-core/internal/domain"
)

// Anonymous carts expire on their own; thirty days matches the refresh
// window of anonymous device tokens.
const defaultTTL = 30 * 24 * time.Hour

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Repository storing device carts as JSON blobs.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client, ttl: defaultTTL}
}

func cartKey(deviceID string) string {
	return "devicecart:" + deviceID
}

func (r *redisRepo) Get(ctx context.Context, deviceID string) ([]domain.LineItem, error) {
	raw, err := r.client.Get(ctx, cartKey(deviceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *redisRepo) Set(ctx context.Context, deviceID string, items []domain.LineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(deviceID), raw, r.ttl).Err()
}

func (r *redisRepo) Delete(ctx context.Context, deviceID string) error {
	return r.client.Del(ctx, cartKey(deviceID)).Err()
}
