package domain

import "testing"

func TestSnapshotDerivedValues(t *testing.T) {
	snap := Snapshot{
		Cart: []CartLine{
			{ProductID: 1, UnitPriceCents: 1500, Quantity: 2},
			{ProductID: 2, UnitPriceCents: 300, Quantity: 1},
		},
	}
	if got := snap.CartTotalCents(); got != 3300 {
		t.Fatalf("expected total 3300, got %d", got)
	}
	if got := snap.CartCount(); got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
}

func TestEmptySnapshotDerivedValues(t *testing.T) {
	var snap Snapshot
	if snap.CartTotalCents() != 0 || snap.CartCount() != 0 {
		t.Fatalf("empty snapshot must have zero total and count")
	}
}

func TestSnapshotCloneDoesNotAlias(t *testing.T) {
	snap := Snapshot{
		Cart:     []CartLine{{ProductID: 1, Quantity: 1}},
		Wishlist: []WishlistEntry{{ProductID: 2}},
	}
	clone := snap.Clone()
	clone.Cart[0].Quantity = 9
	if snap.Cart[0].Quantity != 1 {
		t.Fatalf("clone aliases the original cart")
	}
}

func TestIdentityStates(t *testing.T) {
	var anon Identity
	if !anon.IsAnonymous() {
		t.Fatalf("zero identity must be anonymous")
	}
	user := Authenticated("u-1")
	if user.IsAnonymous() || user.UserID != "u-1" {
		t.Fatalf("unexpected authenticated identity %+v", user)
	}
}
