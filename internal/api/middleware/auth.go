package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/psn-tools/psnemu/internal/api/apierr"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/services/identity"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth creates middleware that requires a valid Bearer access token.
// The Authorization header must match the exact `Bearer <token>` scheme; a
// missing or malformed header is an authentication failure, not a
// validation failure.
func Auth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				apierr.WriteError(w, apierr.NewUnauthorizedError("Invalid or missing Authorization header"))
				return
			}

			cred, err := identityService.GetUserInfo(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token from an `Authorization: Bearer <t>`
// header, and whether the header was well-formed
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.Credential {
	cred, _ := ctx.Value(userContextKey).(*model.Credential)
	return cred
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.Credential {
	cred := GetUser(ctx)
	if cred == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return cred
}
