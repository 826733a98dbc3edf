package order

import (
	"context"

	"storefront-core/internal/domain"
)

// Repository persists orders produced at checkout.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Order, error)
	SetStatus(ctx context.Context, id, status string) error
}
