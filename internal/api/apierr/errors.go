package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/services/identity"
)

// Error kinds: the top-level `error` field of the envelope. Every domain
// error maps to exactly one kind, and every kind to exactly one status.
const (
	KindValidation     = "VALIDATION_ERROR"     // 400
	KindAuthentication = "AUTHENTICATION_ERROR" // 401
	KindNotFound       = "NOT_FOUND"            // 404
	KindConflict       = "CONFLICT"             // 409
	KindInternal       = "INTERNAL_ERROR"       // 500
)

// Machine-readable error codes carried in the envelope details
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// httpError combines an HTTP status code with envelope content
type httpError struct {
	status  int
	kind    string
	code    string
	message string
	field   string
}

// Error implements the error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError classifies err and writes the error envelope. This is the single
// translation point from domain errors to HTTP; internal detail never leaks
// into the message.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)

	details := map[string]any{"error_code": he.code}
	if he.field != "" {
		details["field"] = he.field
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     he.kind,
		Message:   he.message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Identity errors
	case errors.Is(err, identity.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, KindAuthentication, CodeInvalidCredentials, "Invalid username or password", ""}
	case errors.Is(err, identity.ErrAccountInactive):
		return &httpError{http.StatusUnauthorized, KindAuthentication, CodeAccountInactive, "Account is not active", ""}
	case errors.Is(err, identity.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, KindAuthentication, CodeInvalidToken, "Invalid or expired token", ""}

	// Account errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, KindNotFound, CodePlayerNotFound, "Player not found", ""}
	case errors.Is(err, model.ErrCredentialNotFound):
		return &httpError{http.StatusNotFound, KindNotFound, CodeUserNotFound, "User not found", ""}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, KindConflict, CodeUsernameExists, "Username already exists", "username"}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, KindConflict, CodeEmailExists, "Email already exists", "email"}

	default:
		return &httpError{http.StatusInternalServerError, KindInternal, CodeInternalError, "An unexpected error occurred", ""}
	}
}

// NewValidationError creates a 400 validation error naming the offending field
func NewValidationError(field, message string) error {
	return &httpError{http.StatusBadRequest, KindValidation, CodeInvalidRequest, message, field}
}

// NewInvalidRequestError creates a 400 validation error without a field
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, KindValidation, CodeInvalidRequest, message, ""}
}

// NewRouteNotFoundError creates the 404 route-not-found error
func NewRouteNotFoundError(method, path string) error {
	return &httpError{http.StatusNotFound, KindNotFound, CodeRouteNotFound, fmt.Sprintf("Endpoint not found: %s %s", method, path), ""}
}

// NewUnauthorizedError creates a 401 error for a missing or malformed
// Authorization header
func NewUnauthorizedError(message string) error {
	return &httpError{http.StatusUnauthorized, KindAuthentication, CodeInvalidToken, message, ""}
}

// NewInternalError creates a 500 internal error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, KindInternal, CodeInternalError, "An unexpected error occurred", ""}
}
