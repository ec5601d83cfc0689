package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string {
	return &v
}

func TestAuthTokenRequestValid(t *testing.T) {
	req := AuthTokenRequest{Username: "testuser", Password: "password123"}
	assert.NoError(t, req.Validate())
	// grant_type defaults when omitted
	assert.Equal(t, GrantTypePassword, req.GrantType)
}

func TestAuthTokenRequestShortUsername(t *testing.T) {
	req := AuthTokenRequest{Username: "ab", Password: "password123"}
	assert.Error(t, req.Validate())
}

func TestAuthTokenRequestShortPassword(t *testing.T) {
	req := AuthTokenRequest{Username: "testuser", Password: "short"}
	assert.Error(t, req.Validate())
}

func TestAuthTokenRequestWrongGrantType(t *testing.T) {
	req := AuthTokenRequest{Username: "testuser", Password: "password123", GrantType: "client_credentials"}
	assert.Error(t, req.Validate())
}

func TestRefreshTokenRequestValid(t *testing.T) {
	req := RefreshTokenRequest{RefreshToken: "some-token"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, GrantTypeRefreshToken, req.GrantType)
}

func TestRefreshTokenRequestMissingToken(t *testing.T) {
	req := RefreshTokenRequest{}
	assert.Error(t, req.Validate())
}

func TestRefreshTokenRequestWrongGrantType(t *testing.T) {
	req := RefreshTokenRequest{RefreshToken: "some-token", GrantType: "password"}
	assert.Error(t, req.Validate())
}

func TestCreatePlayerRequestValid(t *testing.T) {
	req := CreatePlayerRequest{Username: "alice", Email: "alice@example.com"}
	assert.NoError(t, req.Validate())
}

func TestCreatePlayerRequestUsernameBounds(t *testing.T) {
	short := CreatePlayerRequest{Username: "ab", Email: "alice@example.com"}
	assert.Error(t, short.Validate())

	long := CreatePlayerRequest{Username: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Email: "alice@example.com"}
	assert.Error(t, long.Validate())
}

func TestCreatePlayerRequestInvalidEmail(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "a@", "Alice <alice@example.com>"} {
		req := CreatePlayerRequest{Username: "alice", Email: email}
		assert.Error(t, req.Validate(), "email %q should be rejected", email)
	}
}

func TestCreatePlayerRequestLongDisplayName(t *testing.T) {
	name := make([]byte, 51)
	for i := range name {
		name[i] = 'a'
	}
	req := CreatePlayerRequest{Username: "alice", Email: "alice@example.com", DisplayName: strPtr(string(name))}
	assert.Error(t, req.Validate())
}

func TestUpdatePlayerRequestEmptyIsValid(t *testing.T) {
	req := UpdatePlayerRequest{}
	assert.NoError(t, req.Validate())
}

func TestUpdatePlayerRequestValidStatus(t *testing.T) {
	for _, status := range []string{"active", "suspended", "inactive"} {
		req := UpdatePlayerRequest{Status: strPtr(status)}
		assert.NoError(t, req.Validate())
	}
}

func TestUpdatePlayerRequestInvalidStatus(t *testing.T) {
	req := UpdatePlayerRequest{Status: strPtr("banned")}
	assert.Error(t, req.Validate())
}

func TestUpdatePlayerRequestInvalidEmail(t *testing.T) {
	req := UpdatePlayerRequest{Email: strPtr("nope")}
	assert.Error(t, req.Validate())
}
