package devicecart

import (
	"context"

	"storefront-core/internal/domain"
)

// Repository is the local cart store: the device-scoped record an
// anonymous visitor's cart lives in until sign-in migrates it.
type Repository interface {
	Get(ctx context.Context, deviceID string) ([]domain.LineItem, error)
	Set(ctx context.Context, deviceID string, items []domain.LineItem) error
	Delete(ctx context.Context, deviceID string) error
}
