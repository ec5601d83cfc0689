package model

import "time"

// UserID uniquely identifies an identity-provider user
type UserID string

// Credential is a seeded identity-provider login record.
// The credential table is static for the process lifetime; passwords are
// stored and compared in plaintext, matching the emulator's intentionally
// weak reference behavior.
type Credential struct {
	UserID    UserID
	Username  string
	Password  string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// SeedCredentials returns the default demo credential table
func SeedCredentials(now time.Time) []*Credential {
	return []*Credential{
		{
			UserID:    "usr_001",
			Username:  "testuser",
			Password:  "password123",
			Email:     "testuser@example.com",
			IsActive:  true,
			CreatedAt: now,
		},
	}
}
