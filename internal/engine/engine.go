// Package engine owns the in-memory cart and wishlist for one session.
// Mutations apply synchronously and optimistically: the snapshot and local
// cache are updated before any network work, and a background outbox brings
// the remote store in line when a user is signed in. Local state is the
// source of immediate truth; the remote store is eventually consistent.
package engine

import (
	"context"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Rishusingh18/industrie24/internal/cache"
	"github.com/Rishusingh18/industrie24/internal/domain"
	"github.com/Rishusingh18/industrie24/internal/remote"
	"github.com/google/uuid"
)

// Phase is the engine's position in the identity lifecycle. Reconciliation
// is the guarded action of the Anonymous→Authenticated transition.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseReconciling
	PhaseAuthenticated
)

// ProductInfo is what a consumer knows about a product when mutating the
// cart or wishlist.
type ProductInfo struct {
	ProductID      int64
	Name           string
	UnitPriceCents int64
	ImageURL       string
}

// Config wires an Engine. Cache and Remote are required; the rest default.
type Config struct {
	ProfileID      string
	Cache          cache.Store
	Remote         remote.Store
	Logger         *log.Logger
	Notifier       Notifier
	RetryLimit     int
	QueueSize      int
	RetryBaseDelay time.Duration
}

type Engine struct {
	mu         sync.Mutex
	profileID  string
	cart       map[int64]domain.CartLine
	wishlist   map[int64]domain.WishlistEntry
	identity   domain.Identity
	phase      Phase
	generation uint64

	cache    cache.Store
	outbox   *outbox
	remote   remote.Store
	logger   *log.Logger
	notifier Notifier

	persistTimeout time.Duration
	fetchTimeout   time.Duration
}

// New builds an Engine seeded from the local cache. A missing or unreadable
// cache entry starts the session empty rather than failing.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[engine] ", log.LstdFlags|log.LUTC)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	e := &Engine{
		profileID:      cfg.ProfileID,
		cart:           make(map[int64]domain.CartLine),
		wishlist:       make(map[int64]domain.WishlistEntry),
		cache:          cfg.Cache,
		remote:         cfg.Remote,
		logger:         logger,
		notifier:       notifier,
		persistTimeout: 3 * time.Second,
		fetchTimeout:   5 * time.Second,
	}
	e.outbox = newOutbox(cfg.Remote, logger, notifier, cfg.RetryLimit, cfg.QueueSize, cfg.RetryBaseDelay)

	ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
	defer cancel()
	snap, err := cfg.Cache.Load(ctx, cfg.ProfileID)
	if err != nil {
		logger.Printf("engine: load cached snapshot: %v", err)
		return e
	}
	for _, l := range snap.Cart {
		if l.Quantity >= 1 {
			e.cart[l.ProductID] = l
		}
	}
	for _, w := range snap.Wishlist {
		e.wishlist[w.ProductID] = w
	}
	return e
}

// Close drains the outbox. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.outbox.close()
}

// AddItem inserts a line with quantity 1, or bumps an existing line by 1.
func (e *Engine) AddItem(p ProductInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	line, ok := e.cart[p.ProductID]
	if ok {
		line.Quantity++
	} else {
		line = domain.CartLine{
			ProductID:      p.ProductID,
			Name:           p.Name,
			UnitPriceCents: p.UnitPriceCents,
			ImageURL:       p.ImageURL,
			Quantity:       1,
		}
	}
	e.cart[p.ProductID] = line
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opUpsertCartLine, line: line})
}

// RemoveItem deletes the line if present; removing an absent product is a no-op.
func (e *Engine) RemoveItem(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.cart[productID]; !ok {
		return
	}
	delete(e.cart, productID)
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opDeleteCartLine, productID: productID})
}

// SetQuantity sets an existing line to an absolute quantity. Zero or a
// negative value behaves as RemoveItem; an absent product is a no-op.
func (e *Engine) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(productID)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	line, ok := e.cart[productID]
	if !ok {
		return
	}
	line.Quantity = quantity
	e.cart[productID] = line
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opUpsertCartLine, line: line})
}

// ClearCart empties every cart line.
func (e *Engine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = make(map[int64]domain.CartLine)
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opClearCart})
}

// ToggleWishlist flips membership: absent inserts, present removes.
func (e *Engine) ToggleWishlist(p ProductInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.wishlist[p.ProductID]; ok {
		delete(e.wishlist, p.ProductID)
		e.generation++
		e.persistLocked()
		e.enqueueLocked(remoteOp{kind: opDeleteWishlistEntry, productID: p.ProductID})
		return
	}
	entry := domain.WishlistEntry{
		ProductID:      p.ProductID,
		Name:           p.Name,
		UnitPriceCents: p.UnitPriceCents,
		ImageURL:       p.ImageURL,
	}
	e.wishlist[p.ProductID] = entry
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opUpsertWishlistEntry, entry: entry})
}

// RemoveFromWishlist deletes the entry if present.
func (e *Engine) RemoveFromWishlist(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.wishlist[productID]; !ok {
		return
	}
	delete(e.wishlist, productID)
	e.generation++
	e.persistLocked()
	e.enqueueLocked(remoteOp{kind: opDeleteWishlistEntry, productID: productID})
}

// CartLines returns the current lines ordered by product id.
func (e *Engine) CartLines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked().Cart
}

// WishlistEntries returns the current entries ordered by product id.
func (e *Engine) WishlistEntries() []domain.WishlistEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked().Wishlist
}

// CartTotalCents recomputes the total from the lines on every call.
func (e *Engine) CartTotalCents() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked().CartTotalCents()
}

// CartCount is the summed quantity across all lines.
func (e *Engine) CartCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked().CartCount()
}

// Snapshot returns a copy of the full state.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Identity returns the identity the engine currently serves.
func (e *Engine) Identity() domain.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// CurrentPhase reports where the engine sits in the identity lifecycle.
func (e *Engine) CurrentPhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// snapshotLocked materializes the maps into sorted slices. Callers hold e.mu.
func (e *Engine) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Cart:     make([]domain.CartLine, 0, len(e.cart)),
		Wishlist: make([]domain.WishlistEntry, 0, len(e.wishlist)),
	}
	for _, l := range e.cart {
		snap.Cart = append(snap.Cart, l)
	}
	for _, w := range e.wishlist {
		snap.Wishlist = append(snap.Wishlist, w)
	}
	sort.Slice(snap.Cart, func(i, j int) bool { return snap.Cart[i].ProductID < snap.Cart[j].ProductID })
	sort.Slice(snap.Wishlist, func(i, j int) bool { return snap.Wishlist[i].ProductID < snap.Wishlist[j].ProductID })
	return snap
}

// persistLocked writes the snapshot to the local cache. Failures are logged
// and surfaced as a notice; the in-memory state stands regardless.
func (e *Engine) persistLocked() {
	snap := e.snapshotLocked()
	ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
	defer cancel()
	if err := e.cache.Save(ctx, e.profileID, snap); err != nil {
		e.logger.Printf("engine: persist snapshot for profile %s: %v", e.profileID, err)
		e.notifier.Notify(newNotice(LevelWarning, "your cart could not be saved on this device"))
	}
}

// enqueueLocked hands a write to the outbox when a user is signed in.
// Enqueuing under the lock keeps a session's ops in mutation order.
func (e *Engine) enqueueLocked(op remoteOp) {
	if e.identity.IsAnonymous() {
		return
	}
	op.id = uuid.NewString()
	op.userID = e.identity.UserID
	e.outbox.enqueue(op)
}
