package domain

// Actor is the authenticated caller as reported by the identity provider.
// A nil *Actor is an anonymous caller.
type Actor struct {
	ID      string
	IsAdmin bool
}

// IsAnonymous reports whether the caller is unauthenticated
func (a *Actor) IsAnonymous() bool {
	return a == nil || a.ID == ""
}

// Admin reports whether the caller has staff privileges
func (a *Actor) Admin() bool {
	return a != nil && a.ID != "" && a.IsAdmin
}

// Owns reports whether the caller is the given owner
func (a *Actor) Owns(ownerID string) bool {
	return !a.IsAnonymous() && a.ID == ownerID
}

// UserID returns the caller id, empty for anonymous callers
func (a *Actor) UserID() string {
	if a == nil {
		return ""
	}
	return a.ID
}
