package remote

import (
	"context"

	"github.com/Rishusingh18/industrie24/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the cart_items/wishlist_items tables.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) FetchCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT product_id, name, unit_price_cents, image_url, quantity
FROM cart_items
WHERE user_id = $1
ORDER BY product_id ASC
`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.Name,
			&line.UnitPriceCents,
			&line.ImageURL,
			&line.Quantity,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *postgresStore) FetchWishlist(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	const q = `
SELECT product_id, name, unit_price_cents, image_url
FROM wishlist_items
WHERE user_id = $1
ORDER BY product_id ASC
`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WishlistEntry
	for rows.Next() {
		var entry domain.WishlistEntry
		if err := rows.Scan(
			&entry.ProductID,
			&entry.Name,
			&entry.UnitPriceCents,
			&entry.ImageURL,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *postgresStore) UpsertCartLine(ctx context.Context, userID string, line domain.CartLine) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, name, unit_price_cents, image_url, quantity, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (user_id, product_id)
DO UPDATE SET
	name = EXCLUDED.name,
	unit_price_cents = EXCLUDED.unit_price_cents,
	image_url = EXCLUDED.image_url,
	quantity = EXCLUDED.quantity,
	updated_at = now()
`
	_, err := s.pool.Exec(ctx, q, userID, line.ProductID, line.Name, line.UnitPriceCents, line.ImageURL, line.Quantity)
	return err
}

func (s *postgresStore) DeleteCartLine(ctx context.Context, userID string, productID int64) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	return err
}

func (s *postgresStore) ClearCart(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1
`, userID)
	return err
}

func (s *postgresStore) UpsertWishlistEntry(ctx context.Context, userID string, entry domain.WishlistEntry) error {
	const q = `
INSERT INTO wishlist_items (user_id, product_id, name, unit_price_cents, image_url, added_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id, product_id)
DO UPDATE SET
	name = EXCLUDED.name,
	unit_price_cents = EXCLUDED.unit_price_cents,
	image_url = EXCLUDED.image_url
`
	_, err := s.pool.Exec(ctx, q, userID, entry.ProductID, entry.Name, entry.UnitPriceCents, entry.ImageURL)
	return err
}

func (s *postgresStore) DeleteWishlistEntry(ctx context.Context, userID string, productID int64) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM wishlist_items
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	return err
}
