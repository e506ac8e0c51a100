package domain

// Identity is the current viewer: the zero value is an anonymous session,
// anything else carries the signed-in user's id. Exactly one holds at a time;
// transitions are driven externally by the identity observer.
type Identity struct {
	UserID string
}

// Authenticated builds the identity for a signed-in user.
func Authenticated(userID string) Identity {
	return Identity{UserID: userID}
}

// IsAnonymous reports whether no user is signed in.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}
