package policy

import "feedstream/internal/apperr"

// Identity is the once-per-request authentication result. A zero Identity
// means "not authenticated".
type Identity struct {
	Authenticated bool
	UserID        string
	Email         string
}

// RequireAuthenticated gates operations that need a resolved identity.
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated {
		return apperr.NotAuthenticated()
	}
	return nil
}

// RequireOwnership compares the acting identity against the creator id that
// was just loaded from the store. Callers must pass a fresh value, not a
// cached one.
func RequireOwnership(id Identity, creatorID string) error {
	if id.UserID != creatorID {
		return apperr.NotAuthorized()
	}
	return nil
}
