package models

import "time"

// RefreshToken is a stored renewal credential. A token is usable iff
// Revoked is false and Expires is in the future; both checks are enforced
// in SQL by the repository, not by callers.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Usable reports whether the token can still be exchanged at instant now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.Expires)
}
