package model

import "time"

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token is an opaque server-side token record. Tokens are random URL-safe
// strings looked up by value; there is no signature to verify.
type Token struct {
	Value     string
	Type      TokenType
	UserID    UserID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is expired as of now
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
