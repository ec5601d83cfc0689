package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psn-tools/psnemu/internal/api"
	"github.com/psn-tools/psnemu/internal/api/apierr"
	"github.com/psn-tools/psnemu/internal/api/response"
	"github.com/psn-tools/psnemu/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		IdentityService: app.IdentityService,
		AccountService:  app.AccountService,
		Metrics:         app.Metrics,
		MetricsRegistry: app.MetricsRegistry,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// authenticate logs in with the seeded demo credential
func (ts *testServer) authenticate(t *testing.T) response.TokenResponse {
	t.Helper()

	body := map[string]string{
		"username": "testuser",
		"password": "password123",
	}
	rr := ts.request(http.MethodPost, "/auth/token", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.ErrorResponse {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// Operational endpoints

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "NOT_FOUND", resp.Error)
	assert.Equal(t, "ROUTE_NOT_FOUND", resp.Details["error_code"])
	assert.False(t, resp.Timestamp.IsZero())
}

func TestMethodNotAllowedGetsNotFoundEnvelope(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPatch, "/players", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "ROUTE_NOT_FOUND", resp.Details["error_code"])
}

// Auth endpoints

func TestAuthToken(t *testing.T) {
	ts := newTestServer(t)

	pair := ts.authenticate(t)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, 3600, pair.ExpiresIn)
}

func TestAuthTokenWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"username": "testuser",
		"password": "wrongpassword",
	}
	rr := ts.request(http.MethodPost, "/auth/token", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "AUTHENTICATION_ERROR", resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Details["error_code"])
}

func TestAuthTokenValidation(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"username": "ab",
		"password": "password123",
	}
	rr := ts.request(http.MethodPost, "/auth/token", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Equal(t, "username", resp.Details["field"])
}

func TestAuthTokenMalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
}

func TestUserInfo(t *testing.T) {
	ts := newTestServer(t)
	pair := ts.authenticate(t)

	rr := ts.request(http.MethodGet, "/auth/userinfo", nil, pair.AccessToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.UserInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "usr_001", resp.UserID)
	assert.Equal(t, "testuser", resp.Username)
	assert.Equal(t, "testuser@example.com", resp.Email)
	assert.True(t, resp.IsActive)

	// The password never appears in any response
	assert.NotContains(t, rr.Body.String(), "password123")
}

func TestUserInfoWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/auth/userinfo", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "AUTHENTICATION_ERROR", resp.Error)
}

func TestUserInfoWithBogusToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/auth/userinfo", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "INVALID_TOKEN", resp.Details["error_code"])
}

func TestUserInfoWithMalformedHeader(t *testing.T) {
	ts := newTestServer(t)
	pair := ts.authenticate(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/userinfo", nil)
	req.Header.Set("Authorization", pair.AccessToken) // missing Bearer prefix
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	pair := ts.authenticate(t)

	body := map[string]string{
		"refresh_token": pair.RefreshToken,
		"grant_type":    "refresh_token",
	}
	rr := ts.request(http.MethodPost, "/auth/refresh", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, pair.AccessToken, resp.AccessToken)

	// The rotated-out refresh token no longer works
	rr = ts.request(http.MethodPost, "/auth/refresh", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshWithAccessToken(t *testing.T) {
	ts := newTestServer(t)
	pair := ts.authenticate(t)

	body := map[string]string{
		"refresh_token": pair.AccessToken,
	}
	rr := ts.request(http.MethodPost, "/auth/refresh", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "INVALID_TOKEN", resp.Details["error_code"])
}

// Player endpoints

func TestPlayerLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Create
	createBody := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	}
	rr := ts.request(http.MethodPost, "/players", createBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Regexp(t, `^plr_[0-9a-f]{16}$`, created.PlayerID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice", created.DisplayName)
	assert.Equal(t, "active", created.Status)

	// Duplicate username conflicts
	dupBody := map[string]string{
		"username": "alice",
		"email":    "other@example.com",
	}
	rr = ts.request(http.MethodPost, "/players", dupBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	errResp := decodeError(t, rr)
	assert.Equal(t, "CONFLICT", errResp.Error)
	assert.Equal(t, "USERNAME_EXISTS", errResp.Details["error_code"])
	assert.Equal(t, "username", errResp.Details["field"])

	// Get
	rr = ts.request(http.MethodGet, "/players/"+created.PlayerID, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var fetched response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, created.PlayerID, fetched.PlayerID)

	// Delete
	rr = ts.request(http.MethodDelete, "/players/"+created.PlayerID, nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	// Get after delete
	rr = ts.request(http.MethodGet, "/players/"+created.PlayerID, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	errResp = decodeError(t, rr)
	assert.Equal(t, "PLAYER_NOT_FOUND", errResp.Details["error_code"])
}

func TestCreatePlayerWithDisplayName(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"username":     "alice",
		"email":        "alice@example.com",
		"display_name": "Alice A.",
	}
	rr := ts.request(http.MethodPost, "/players", body, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Alice A.", created.DisplayName)
}

func TestCreatePlayerInvalidEmail(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"username": "alice",
		"email":    "not-an-email",
	}
	rr := ts.request(http.MethodPost, "/players", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Equal(t, "email", resp.Details["field"])
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)

	for _, u := range []string{"alice", "bob", "carol"} {
		body := map[string]string{"username": u, "email": u + "@example.com"}
		rr := ts.request(http.MethodPost, "/players", body, "")
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/players", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "alice", resp.Players[0].Username)
	assert.Equal(t, "bob", resp.Players[1].Username)
	assert.Equal(t, "carol", resp.Players[2].Username)
}

func TestListPlayersEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/players", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Players)
}

func TestUpdatePlayer(t *testing.T) {
	ts := newTestServer(t)

	createBody := map[string]string{"username": "alice", "email": "alice@example.com"}
	rr := ts.request(http.MethodPost, "/players", createBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	updateBody := map[string]string{
		"display_name": "Alice A.",
		"status":       "suspended",
	}
	rr = ts.request(http.MethodPut, "/players/"+created.PlayerID, updateBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var updated response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Alice A.", updated.DisplayName)
	assert.Equal(t, "suspended", updated.Status)
	// Unsupplied fields untouched
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "alice", updated.Username)
}

func TestUpdatePlayerInvalidStatus(t *testing.T) {
	ts := newTestServer(t)

	createBody := map[string]string{"username": "alice", "email": "alice@example.com"}
	rr := ts.request(http.MethodPost, "/players", createBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	updateBody := map[string]string{"status": "banned"}
	rr = ts.request(http.MethodPut, "/players/"+created.PlayerID, updateBody, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "status", resp.Details["field"])
}

func TestUpdatePlayerNotFound(t *testing.T) {
	ts := newTestServer(t)

	updateBody := map[string]string{"display_name": "Nobody"}
	rr := ts.request(http.MethodPut, "/players/plr_0000000000000000", updateBody, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePlayerEmailConflict(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/players", map[string]string{"username": "alice", "email": "alice@example.com"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/players", map[string]string{"username": "bob", "email": "bob@example.com"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var bob response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bob))

	rr = ts.request(http.MethodPut, "/players/"+bob.PlayerID, map[string]string{"email": "alice@example.com"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "EMAIL_EXISTS", resp.Details["error_code"])
	assert.Equal(t, "email", resp.Details["field"])
}

func TestDeletePlayerNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/players/plr_0000000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlayerStats(t *testing.T) {
	ts := newTestServer(t)

	createBody := map[string]string{"username": "alice", "email": "alice@example.com"}
	rr := ts.request(http.MethodPost, "/players", createBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = ts.request(http.MethodGet, "/players/"+created.PlayerID+"/stats", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var stats response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, created.PlayerID, stats.PlayerID)
	assert.Equal(t, stats.TotalGames, stats.Wins+stats.Losses)

	// Repeated reads agree
	rr = ts.request(http.MethodGet, "/players/"+created.PlayerID+"/stats", nil, "")
	var again response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again))
	assert.Equal(t, stats, again)
}

func TestPlayerStatsNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/players/plr_0000000000000000/stats", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
