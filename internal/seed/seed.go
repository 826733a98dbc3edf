package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"storefront-core/internal/domain"
)

type customerSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Cart      []domain.LineItem
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	customers := []customerSeed{
		{
			Email:     "demo@storefront.local",
			Password:  "demo-password",
			FirstName: "Demo",
			LastName:  "Shopper",
			Cart: []domain.LineItem{
				{ItemID: "demo-shirt", DisplayName: "Demo T-Shirt", UnitPriceCents: 1999, Quantity: 2},
				{ItemID: "demo-mug", DisplayName: "Demo Mug", UnitPriceCents: 1299, Quantity: 1},
			},
		},
		{
			Email:     "empty@storefront.local",
			Password:  "demo-password",
			FirstName: "Empty",
			LastName:  "Cart",
		},
	}

	for _, c := range customers {
		id, err := ensureCustomer(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("ensure customer %s: %w", c.Email, err)
		}
		if len(c.Cart) == 0 {
			continue
		}
		if err := upsertCart(ctx, pool, id, c.Cart); err != nil {
			return fmt.Errorf("upsert cart for %s: %w", c.Email, err)
		}
	}

	return nil
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name,
                                  last_name = EXCLUDED.last_name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Email, string(hash), c.FirstName, c.LastName).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertCart(ctx context.Context, pool *pgxpool.Pool, userID string, items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO user_carts (user_id, items, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = now()
`
	_, err = pool.Exec(ctx, q, userID, data)
	return err
}
