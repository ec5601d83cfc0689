package handler

import (
	"encoding/json"
	"net/http"

	"github.com/psn-tools/psnemu/internal/api/middleware"
	"github.com/psn-tools/psnemu/internal/api/request"
	"github.com/psn-tools/psnemu/internal/api/response"
	"github.com/psn-tools/psnemu/internal/metrics"
	"github.com/psn-tools/psnemu/internal/services/identity"
)

// AuthHandler handles identity-provider endpoints
type AuthHandler struct {
	identityService *identity.Service
	metrics         *metrics.Collector
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identityService *identity.Service, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
		metrics:         collector,
	}
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.AuthTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	pair, err := h.identityService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.RecordTokenIssued(request.GrantTypePassword)
	response.JSON(w, http.StatusOK, response.TokenResponseFromPair(pair))
}

// UserInfo handles GET /auth/userinfo
func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	cred := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserInfoFromCredential(cred))
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	pair, err := h.identityService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.RecordTokenIssued(request.GrantTypeRefreshToken)
	response.JSON(w, http.StatusOK, response.TokenResponseFromPair(pair))
}
