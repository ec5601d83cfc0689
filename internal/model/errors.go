package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailTaken     = errors.New("email already exists")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")

	// Token errors
	ErrTokenNotFound = errors.New("token not found")
)
