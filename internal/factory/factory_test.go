package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresMemoryBackend(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	assert.NotNil(t, app.Storage)
	assert.NotNil(t, app.IdentityService)
	assert.NotNil(t, app.AccountService)
	assert.NotNil(t, app.Metrics)
	assert.NotNil(t, app.MetricsRegistry)
}

func TestNewSeedsCredentials(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	cred, err := app.Storage.GetCredentialByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, "password123", cred.Password)
	assert.True(t, cred.IsActive)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.Error(t, err)
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewTestAppUsesMocks(t *testing.T) {
	app, err := NewTestApp()
	require.NoError(t, err)

	// The mocked clock drives token expiry deterministically
	pair, err := app.IdentityService.Authenticate(context.Background(), "testuser", "password123")
	require.NoError(t, err)

	_, err = app.IdentityService.GetUserInfo(context.Background(), pair.AccessToken)
	require.NoError(t, err)

	app.MockClock.Advance(2 * time.Hour)

	_, err = app.IdentityService.GetUserInfo(context.Background(), pair.AccessToken)
	assert.Error(t, err)
}

func TestNewTestAppIsolatesState(t *testing.T) {
	app1, err := NewTestApp()
	require.NoError(t, err)
	app2, err := NewTestApp()
	require.NoError(t, err)

	_, err = app1.AccountService.CreatePlayer(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)

	players, err := app2.AccountService.ListPlayers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, players)
}
