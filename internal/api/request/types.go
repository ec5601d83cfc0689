// Package request holds the request body schemas. Each type carries a
// Validate method that checks presence, length, and enum constraints before
// any business logic runs; failures name the offending field.
package request

import (
	"net/mail"

	"github.com/psn-tools/psnemu/internal/api/apierr"
	"github.com/psn-tools/psnemu/internal/model"
)

// Grant types accepted by the identity endpoints
const (
	GrantTypePassword     = "password"
	GrantTypeRefreshToken = "refresh_token"
)

// AuthTokenRequest is the request body for POST /auth/token
type AuthTokenRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	GrantType string `json:"grant_type"`
}

// Validate checks the authentication request
func (r *AuthTokenRequest) Validate() error {
	if len(r.Username) < 3 || len(r.Username) > 50 {
		return apierr.NewValidationError("username", "username must be 3-50 characters")
	}
	if len(r.Password) < 8 {
		return apierr.NewValidationError("password", "password must be at least 8 characters")
	}
	if r.GrantType == "" {
		r.GrantType = GrantTypePassword
	}
	if r.GrantType != GrantTypePassword {
		return apierr.NewValidationError("grant_type", "grant_type must be 'password'")
	}
	return nil
}

// RefreshTokenRequest is the request body for POST /auth/refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
	GrantType    string `json:"grant_type"`
}

// Validate checks the refresh request
func (r *RefreshTokenRequest) Validate() error {
	if r.RefreshToken == "" {
		return apierr.NewValidationError("refresh_token", "refresh_token is required")
	}
	if r.GrantType == "" {
		r.GrantType = GrantTypeRefreshToken
	}
	if r.GrantType != GrantTypeRefreshToken {
		return apierr.NewValidationError("grant_type", "grant_type must be 'refresh_token'")
	}
	return nil
}

// CreatePlayerRequest is the request body for POST /players
type CreatePlayerRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Validate checks the create request
func (r *CreatePlayerRequest) Validate() error {
	if len(r.Username) < 3 || len(r.Username) > 30 {
		return apierr.NewValidationError("username", "username must be 3-30 characters")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.DisplayName != nil && len(*r.DisplayName) > 50 {
		return apierr.NewValidationError("display_name", "display_name must be at most 50 characters")
	}
	return nil
}

// UpdatePlayerRequest is the request body for PUT /players/{player_id}.
// Pointer fields distinguish "not supplied" from "explicitly empty"; only
// supplied fields are applied.
type UpdatePlayerRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Validate checks the update request
func (r *UpdatePlayerRequest) Validate() error {
	if r.DisplayName != nil && len(*r.DisplayName) > 50 {
		return apierr.NewValidationError("display_name", "display_name must be at most 50 characters")
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Status != nil && !model.ValidPlayerStatus(model.PlayerStatus(*r.Status)) {
		return apierr.NewValidationError("status", "status must be one of: active, suspended, inactive")
	}
	return nil
}

// validateEmail checks that the address is a bare, syntactically valid email
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apierr.NewValidationError("email", "email must be a valid email address")
	}
	return nil
}
