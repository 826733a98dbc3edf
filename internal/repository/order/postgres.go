package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-core/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, err
	}
	shipJSON, err := json.Marshal(o.Shipping)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO orders (id, user_id, lines, subtotal_cents, discount_cents, total_cents, promo_code, shipping, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at
`
	created := o
	if err := r.pool.QueryRow(ctx, q,
		o.ID,
		o.UserID,
		linesJSON,
		o.SubtotalCents,
		o.DiscountCents,
		o.TotalCents,
		o.PromoCode,
		shipJSON,
		o.Status,
	).Scan(&created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Order, error) {
	const q = `
SELECT id, user_id, lines, subtotal_cents, discount_cents, total_cents, promo_code, shipping, status, created_at
FROM orders
WHERE user_id = $1 AND id = $2
`
	var o domain.Order
	var linesJSON, shipJSON []byte
	err := r.pool.QueryRow(ctx, q, userID, id).Scan(
		&o.ID,
		&o.UserID,
		&linesJSON,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.PromoCode,
		&shipJSON,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shipJSON, &o.Shipping); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id, status string) error {
	const q = `
UPDATE orders
SET status = $1
WHERE id = $2
`
	cmd, err := r.pool.Exec(ctx, q, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
