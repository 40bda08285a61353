package model

import "time"

// Session is proof of authentication. It lives in Redis keyed by the
// SHA-256 of the opaque token; the plaintext token is never stored.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
// The Redis TTL normally reaps expired sessions; this is the
// authoritative check for entries read just before eviction.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
