package engine

import (
	"context"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

// HandleIdentity is the engine's subscription to the identity observer.
// Sign-in runs the one-shot reconciliation pass; sign-out destroys local
// state so nothing leaks across accounts on a shared device.
func (e *Engine) HandleIdentity(id domain.Identity) {
	if id.IsAnonymous() {
		e.signOut()
		return
	}
	e.reconcile(id)
}

// reconcile merges the cached snapshot with the remote store exactly once
// per Anonymous→Authenticated transition. Per collection: remote wins if it
// is non-empty, otherwise the local collection stays as-is and remains
// unwritten to the remote until the next mutation. A fetch failure for a
// collection counts as empty-remote, so local work is never discarded on a
// flaky read.
func (e *Engine) reconcile(id domain.Identity) {
	e.mu.Lock()
	if e.identity == id && e.phase != PhaseAnonymous {
		// Already reconciling or reconciled for this user; retries are no-ops.
		e.mu.Unlock()
		return
	}
	if !e.identity.IsAnonymous() {
		// Direct user switch without an intervening sign-out. The previous
		// user's remote-derived state must not seed the new account, so the
		// switch behaves as sign-out followed by a fresh sign-in.
		e.resetLocked()
	}
	e.identity = id
	e.phase = PhaseReconciling
	gen := e.generation
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), e.fetchTimeout)
	defer cancel()

	remoteCart, cartErr := e.remote.FetchCart(ctx, id.UserID)
	if cartErr != nil {
		e.logger.Printf("engine: fetch remote cart for %s: %v", id.UserID, cartErr)
		e.notifier.Notify(newNotice(LevelWarning, "could not load the cart saved to your account"))
	}
	remoteWishlist, wishErr := e.remote.FetchWishlist(ctx, id.UserID)
	if wishErr != nil {
		e.logger.Printf("engine: fetch remote wishlist for %s: %v", id.UserID, wishErr)
		e.notifier.Notify(newNotice(LevelWarning, "could not load the wishlist saved to your account"))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.identity != id {
		// Signed out or switched user while the fetch was in flight.
		return
	}
	if e.generation == gen {
		if cartErr == nil && len(remoteCart) > 0 {
			e.cart = make(map[int64]domain.CartLine, len(remoteCart))
			for _, l := range remoteCart {
				if l.Quantity >= 1 {
					e.cart[l.ProductID] = l
				}
			}
		}
		if wishErr == nil && len(remoteWishlist) > 0 {
			e.wishlist = make(map[int64]domain.WishlistEntry, len(remoteWishlist))
			for _, w := range remoteWishlist {
				e.wishlist[w.ProductID] = w
			}
		}
	}
	// A mutation that landed mid-fetch bumped the generation; its state wins
	// over the fetched snapshot and its remote write is already queued.
	e.phase = PhaseAuthenticated
	e.persistLocked()
}

// signOut drops all state and clears the cache. Intentionally destructive:
// remote-derived data must not survive on the device after sign-out.
func (e *Engine) signOut() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	e.identity = domain.Identity{}
	e.phase = PhaseAnonymous
}

// resetLocked empties both collections and the cache entry. Callers hold e.mu.
func (e *Engine) resetLocked() {
	e.cart = make(map[int64]domain.CartLine)
	e.wishlist = make(map[int64]domain.WishlistEntry)
	e.generation++
	ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
	defer cancel()
	if err := e.cache.Clear(ctx, e.profileID); err != nil {
		e.logger.Printf("engine: clear cache for profile %s: %v", e.profileID, err)
	}
}
