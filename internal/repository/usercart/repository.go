package usercart

import (
	"context"

	"storefront-core/internal/domain"
)

// Repository is the remote cart store: one persisted line sequence per
// authenticated user.
type Repository interface {
	Get(ctx context.Context, userID string) ([]domain.LineItem, error)
	Upsert(ctx context.Context, userID string, items []domain.LineItem) error
	Clear(ctx context.Context, userID string) error
}
