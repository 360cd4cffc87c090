package models

import "time"

// RefreshToken is a server-issued refresh credential. Token is the opaque
// hex string handed to the client; it is single use and is deleted when it
// is exchanged for a new pair or when its user logs out.
type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token can no longer be exchanged at now.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return t.Expires.Before(now)
}
