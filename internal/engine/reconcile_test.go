package engine

import (
	"errors"
	"testing"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

func seedLocalCart(c *stubCache, lines ...domain.CartLine) {
	c.snapshots["profile-1"] = domain.Snapshot{Cart: lines}
}

func TestReconcileRemoteWinsWhenNonEmpty(t *testing.T) {
	cacheStore := newStubCache()
	seedLocalCart(cacheStore, domain.CartLine{ProductID: 1, Name: "Part", UnitPriceCents: 100, Quantity: 2})
	remoteStore := &stubRemote{
		cart: []domain.CartLine{{ProductID: 1, Name: "Part", UnitPriceCents: 100, Quantity: 5}},
	}
	e := newTestEngine(cacheStore, remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))

	lines := e.CartLines()
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected remote cart to win, got %+v", lines)
	}
	if e.CurrentPhase() != PhaseAuthenticated {
		t.Fatalf("expected authenticated phase, got %d", e.CurrentPhase())
	}
	// The merged result is persisted for the next load.
	stored := cacheStore.stored("profile-1")
	if len(stored.Cart) != 1 || stored.Cart[0].Quantity != 5 {
		t.Fatalf("merged snapshot not persisted: %+v", stored)
	}
}

func TestReconcileKeepsLocalWhenRemoteEmpty(t *testing.T) {
	cacheStore := newStubCache()
	seedLocalCart(cacheStore, domain.CartLine{ProductID: 1, Name: "Part", UnitPriceCents: 100, Quantity: 2})
	remoteStore := &stubRemote{}
	e := newTestEngine(cacheStore, remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))

	lines := e.CartLines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected local cart preserved, got %+v", lines)
	}
	// No proactive push on login: the local cart stays unwritten until the
	// next mutation.
	remoteStore.mu.Lock()
	defer remoteStore.mu.Unlock()
	if len(remoteStore.upserts) != 0 {
		t.Fatalf("unexpected push on login: %+v", remoteStore.upserts)
	}
}

func TestReconcileCollectionsAreIndependent(t *testing.T) {
	cacheStore := newStubCache()
	cacheStore.snapshots["profile-1"] = domain.Snapshot{
		Cart:     []domain.CartLine{{ProductID: 1, Quantity: 2, Name: "Part"}},
		Wishlist: []domain.WishlistEntry{{ProductID: 9, Name: "Valve"}},
	}
	remoteStore := &stubRemote{
		cart: []domain.CartLine{{ProductID: 3, Quantity: 1, Name: "Remote part"}},
		// Remote wishlist empty.
	}
	e := newTestEngine(cacheStore, remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))

	lines := e.CartLines()
	if len(lines) != 1 || lines[0].ProductID != 3 {
		t.Fatalf("expected remote cart, got %+v", lines)
	}
	entries := e.WishlistEntries()
	if len(entries) != 1 || entries[0].ProductID != 9 {
		t.Fatalf("expected local wishlist preserved, got %+v", entries)
	}
}

func TestReconcileFetchErrorKeepsLocalCollection(t *testing.T) {
	cacheStore := newStubCache()
	seedLocalCart(cacheStore, domain.CartLine{ProductID: 1, Quantity: 2, Name: "Part"})
	remoteStore := &stubRemote{
		fetchCartErr: errors.New("timeout"),
		wishlist:     []domain.WishlistEntry{{ProductID: 4, Name: "Remote valve"}},
	}
	notices := NewNoticeLog(8)
	e := newTestEngine(cacheStore, remoteStore, notices)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))

	lines := e.CartLines()
	if len(lines) != 1 || lines[0].ProductID != 1 {
		t.Fatalf("expected local cart kept on fetch error, got %+v", lines)
	}
	entries := e.WishlistEntries()
	if len(entries) != 1 || entries[0].ProductID != 4 {
		t.Fatalf("expected remote wishlist applied, got %+v", entries)
	}
	var warned bool
	for _, n := range notices.Drain() {
		if n.Level == LevelWarning {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning notice for the failed fetch")
	}
}

func TestReconcileIdempotentPerTransition(t *testing.T) {
	remoteStore := &stubRemote{
		cart: []domain.CartLine{{ProductID: 2, Quantity: 1, Name: "Part"}},
	}
	e := newTestEngine(newStubCache(), remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))
	e.HandleIdentity(domain.Authenticated("user-1"))

	remoteStore.mu.Lock()
	fetches := remoteStore.cartFetches
	remoteStore.mu.Unlock()
	if fetches != 1 {
		t.Fatalf("expected exactly one reconciliation fetch, got %d", fetches)
	}
}

func TestSignOutClearsStateAndCache(t *testing.T) {
	cacheStore := newStubCache()
	remoteStore := &stubRemote{
		cart:     []domain.CartLine{{ProductID: 2, Quantity: 3, Name: "Part"}},
		wishlist: []domain.WishlistEntry{{ProductID: 5, Name: "Valve"}},
	}
	e := newTestEngine(cacheStore, remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))
	if len(e.CartLines()) == 0 {
		t.Fatalf("precondition: remote cart should be loaded")
	}

	e.HandleIdentity(domain.Identity{})

	if lines := e.CartLines(); len(lines) != 0 {
		t.Fatalf("cart not cleared on sign-out: %+v", lines)
	}
	if entries := e.WishlistEntries(); len(entries) != 0 {
		t.Fatalf("wishlist not cleared on sign-out: %+v", entries)
	}
	if cacheStore.clears() != 1 {
		t.Fatalf("expected cache cleared once, got %d", cacheStore.clears())
	}
	stored := cacheStore.stored("profile-1")
	if len(stored.Cart) != 0 || len(stored.Wishlist) != 0 {
		t.Fatalf("remote-derived data survived sign-out: %+v", stored)
	}
	if !e.Identity().IsAnonymous() || e.CurrentPhase() != PhaseAnonymous {
		t.Fatalf("engine did not return to anonymous")
	}
}

func TestDirectUserSwitchDropsPreviousUserState(t *testing.T) {
	cacheStore := newStubCache()
	remoteStore := &stubRemote{
		cart: []domain.CartLine{{ProductID: 2, Name: "Pump", UnitPriceCents: 44900, Quantity: 3}},
	}
	e := newTestEngine(cacheStore, remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))
	if len(e.CartLines()) != 1 {
		t.Fatalf("precondition: user-1 remote cart should be loaded")
	}

	// user-2 has nothing saved remotely.
	remoteStore.mu.Lock()
	remoteStore.cart = nil
	remoteStore.mu.Unlock()

	e.HandleIdentity(domain.Authenticated("user-2"))

	if lines := e.CartLines(); len(lines) != 0 {
		t.Fatalf("user-1 cart survived into user-2 session: %+v", lines)
	}
	if cacheStore.clears() != 1 {
		t.Fatalf("expected cache cleared on user switch, got %d clears", cacheStore.clears())
	}

	// The next mutation writes only user-2's own line, never user-1's.
	e.AddItem(product(9, 100))
	waitFor(t, func() bool { return remoteStore.upsertCount() == 1 })
	remoteStore.mu.Lock()
	defer remoteStore.mu.Unlock()
	if remoteStore.upserts[0].ProductID != 9 || remoteStore.upserts[0].Quantity != 1 {
		t.Fatalf("unexpected upsert after user switch: %+v", remoteStore.upserts)
	}
	if remoteStore.lastWriteUser != "user-2" {
		t.Fatalf("write keyed to %q after switch to user-2", remoteStore.lastWriteUser)
	}
}

func TestSwitchingUsersReconcilesAgain(t *testing.T) {
	remoteStore := &stubRemote{
		cart: []domain.CartLine{{ProductID: 2, Quantity: 1, Name: "Part"}},
	}
	e := newTestEngine(newStubCache(), remoteStore, nil)
	defer e.Close()

	e.HandleIdentity(domain.Authenticated("user-1"))
	e.HandleIdentity(domain.Identity{})
	e.HandleIdentity(domain.Authenticated("user-2"))

	remoteStore.mu.Lock()
	fetches := remoteStore.cartFetches
	remoteStore.mu.Unlock()
	if fetches != 2 {
		t.Fatalf("expected one fetch per sign-in, got %d", fetches)
	}
}
