package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Rishusingh18/industrie24/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const (
	collectionCart     = "cart"
	collectionWishlist = "wishlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS profile_state (
	profile_id TEXT NOT NULL,
	collection TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (profile_id, collection)
)`

// SQLite stores one row per (profile, collection), each holding a JSON list
// of plain records. It is the server-side stand-in for the browser profile's
// persisted blob.
type SQLite struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (or creates) the cache database at path.
func OpenSQLite(path string, logger *log.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLite{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads both collections for a profile. A missing row or a payload that
// fails to decode counts as an empty collection: cache corruption must never
// surface past this layer.
func (s *SQLite) Load(ctx context.Context, profileID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if payload, ok, err := s.loadPayload(ctx, profileID, collectionCart); err != nil {
		return domain.Snapshot{}, err
	} else if ok {
		var lines []domain.CartLine
		if err := json.Unmarshal(payload, &lines); err != nil {
			s.logger.Printf("cache: discarding corrupt cart payload for profile %s: %v", profileID, err)
		} else {
			snap.Cart = lines
		}
	}
	if payload, ok, err := s.loadPayload(ctx, profileID, collectionWishlist); err != nil {
		return domain.Snapshot{}, err
	} else if ok {
		var entries []domain.WishlistEntry
		if err := json.Unmarshal(payload, &entries); err != nil {
			s.logger.Printf("cache: discarding corrupt wishlist payload for profile %s: %v", profileID, err)
		} else {
			snap.Wishlist = entries
		}
	}
	return snap, nil
}

// Save writes both collections in one transaction so a reload never sees a
// cart from one mutation and a wishlist from another.
func (s *SQLite) Save(ctx context.Context, profileID string, snap domain.Snapshot) error {
	cartPayload, err := json.Marshal(nonNilCart(snap.Cart))
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	wishPayload, err := json.Marshal(nonNilWishlist(snap.Wishlist))
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO profile_state (profile_id, collection, payload, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (profile_id, collection)
DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
`
	if _, err := tx.ExecContext(ctx, upsert, profileID, collectionCart, cartPayload); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, profileID, collectionWishlist, wishPayload); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return tx.Commit()
}

// Clear drops every row for the profile.
func (s *SQLite) Clear(ctx context.Context, profileID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profile_state WHERE profile_id = ?`, profileID)
	return err
}

func (s *SQLite) loadPayload(ctx context.Context, profileID, collection string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
SELECT payload FROM profile_state WHERE profile_id = ? AND collection = ?
`, profileID, collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", collection, err)
	}
	return payload, true, nil
}

func nonNilCart(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return []domain.CartLine{}
	}
	return lines
}

func nonNilWishlist(entries []domain.WishlistEntry) []domain.WishlistEntry {
	if entries == nil {
		return []domain.WishlistEntry{}
	}
	return entries
}
