package identity

import (
	"testing"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

func TestCurrentStartsAnonymous(t *testing.T) {
	o := NewObserver()
	if !o.Current().IsAnonymous() {
		t.Fatalf("fresh observer must be anonymous")
	}
}

func TestSignInNotifiesSubscribers(t *testing.T) {
	o := NewObserver()
	var seen []domain.Identity
	o.Subscribe(func(id domain.Identity) {
		seen = append(seen, id)
	})

	o.SignIn("user-1")
	if o.Current() != domain.Authenticated("user-1") {
		t.Fatalf("current identity not updated: %+v", o.Current())
	}
	if len(seen) != 1 || seen[0].UserID != "user-1" {
		t.Fatalf("subscriber not notified: %+v", seen)
	}
}

func TestRepeatedSignInDoesNotReNotify(t *testing.T) {
	o := NewObserver()
	var calls int
	o.Subscribe(func(domain.Identity) { calls++ })

	o.SignIn("user-1")
	o.SignIn("user-1")
	if calls != 1 {
		t.Fatalf("expected one notification for repeated sign-in, got %d", calls)
	}
}

func TestSignOutTransition(t *testing.T) {
	o := NewObserver()
	var seen []domain.Identity
	o.Subscribe(func(id domain.Identity) { seen = append(seen, id) })

	o.SignIn("user-1")
	o.SignOut()
	if !o.Current().IsAnonymous() {
		t.Fatalf("expected anonymous after sign-out")
	}
	if len(seen) != 2 || !seen[1].IsAnonymous() {
		t.Fatalf("expected sign-out notification, got %+v", seen)
	}

	// Signing out while anonymous is a no-op.
	o.SignOut()
	if len(seen) != 2 {
		t.Fatalf("redundant sign-out should not notify")
	}
}

func TestSwitchingUsersNotifiesPerTransition(t *testing.T) {
	o := NewObserver()
	var seen []domain.Identity
	o.Subscribe(func(id domain.Identity) { seen = append(seen, id) })

	o.SignIn("user-1")
	o.SignIn("user-2")
	if len(seen) != 2 || seen[1].UserID != "user-2" {
		t.Fatalf("expected direct user switch to notify, got %+v", seen)
	}
}
