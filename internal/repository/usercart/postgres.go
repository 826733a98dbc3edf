package usercart

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

func (r *postgresRepo) Get(ctx context.Context, userID string) ([]domain.LineItem, error) {
	const q = `
SELECT items
FROM user_carts
WHERE user_id = $1
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

func (r *postgresRepo) Upsert(ctx context.Context, userID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO user_carts (user_id, items, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE
SET items = EXCLUDED.items, updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, userID, raw)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	const q = `
DELETE FROM user_carts
WHERE user_id = $1
`
	_, err := r.pool.Exec(ctx, q, userID)
	return err
}
