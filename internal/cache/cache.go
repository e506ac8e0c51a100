// Package cache persists the last-known cart and wishlist for a browser
// profile so state survives restarts even with no identity established.
package cache

import (
	"context"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

// Store is the local persistence seam for snapshots. Implementations store
// opaque structured data only; business rules (quantities, uniqueness) live
// in the engine.
type Store interface {
	// Load returns the persisted snapshot for a profile. A missing or
	// unreadable entry yields an empty snapshot, never an error that would
	// block initialization.
	Load(ctx context.Context, profileID string) (domain.Snapshot, error)
	// Save replaces the persisted snapshot for a profile.
	Save(ctx context.Context, profileID string, snap domain.Snapshot) error
	// Clear removes all persisted state for a profile.
	Clear(ctx context.Context, profileID string) error
}
