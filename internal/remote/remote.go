// Package remote translates engine mutation intents into idempotent writes
// against the authoritative per-user store. Quantity writes are upserts by
// absolute value, never deltas, so out-of-order delivery converges.
package remote

import (
	"context"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

type Store interface {
	FetchCart(ctx context.Context, userID string) ([]domain.CartLine, error)
	FetchWishlist(ctx context.Context, userID string) ([]domain.WishlistEntry, error)

	// UpsertCartLine writes the line's absolute quantity for (userID, productID).
	UpsertCartLine(ctx context.Context, userID string, line domain.CartLine) error
	DeleteCartLine(ctx context.Context, userID string, productID int64) error
	// ClearCart removes every cart row for the user.
	ClearCart(ctx context.Context, userID string) error

	UpsertWishlistEntry(ctx context.Context, userID string, entry domain.WishlistEntry) error
	DeleteWishlistEntry(ctx context.Context, userID string, productID int64) error
}
