// Package identity tracks the current viewer and fans sign-in/sign-out
// transitions out to subscribers. Transitions are the only trigger for the
// engine's reconciliation pass.
package identity

import (
	"sync"

	"github.com/Rishusingh18/industrie24/internal/domain"
)

// Observer holds the current identity for one session and notifies
// subscribers on every transition.
type Observer struct {
	mu      sync.RWMutex
	current domain.Identity
	subs    []func(domain.Identity)
}

func NewObserver() *Observer {
	return &Observer{}
}

// Current answers the one-shot "who is signed in right now" query.
func (o *Observer) Current() domain.Identity {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Subscribe registers fn to be called on every identity transition. fn runs
// synchronously on the goroutine driving the transition.
func (o *Observer) Subscribe(fn func(domain.Identity)) {
	o.mu.Lock()
	o.subs = append(o.subs, fn)
	o.mu.Unlock()
}

// SignIn transitions to the authenticated identity. Repeating the same user
// is a no-op so retried sign-in callbacks do not re-trigger reconciliation.
func (o *Observer) SignIn(userID string) {
	o.transition(domain.Authenticated(userID))
}

// SignOut transitions back to anonymous.
func (o *Observer) SignOut() {
	o.transition(domain.Identity{})
}

func (o *Observer) transition(next domain.Identity) {
	o.mu.Lock()
	if o.current == next {
		o.mu.Unlock()
		return
	}
	o.current = next
	subs := make([]func(domain.Identity), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
