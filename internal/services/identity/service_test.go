package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/psn-tools/psnemu/internal/dependencies/mocks"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/storage/memory"
	"github.com/psn-tools/psnemu/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()

	for _, cred := range model.SeedCredentials(s.clock.Now()) {
		err := s.storage.SaveCredential(s.ctx, cred)
		s.Require().NoError(err)
	}
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	pair, err := s.service.Authenticate(s.ctx, "testuser", "password123")
	s.Require().NoError(err)

	s.NotEmpty(pair.AccessToken)
	s.NotEmpty(pair.RefreshToken)
	s.NotEqual(pair.AccessToken, pair.RefreshToken)
	s.Equal("Bearer", pair.TokenType)
	s.Equal(3600, pair.ExpiresIn)
	s.Equal(s.clock.Now(), pair.IssuedAt)
}

func (s *ServiceSuite) TestAuthenticateFailsWithWrongPassword() {
	_, err := s.service.Authenticate(s.ctx, "testuser", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateFailsWithUnknownUser() {
	_, err := s.service.Authenticate(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateFailsForInactiveAccount() {
	err := s.storage.SaveCredential(s.ctx, &model.Credential{
		UserID:   "usr_999",
		Username: "frozen",
		Password: "password123",
		Email:    "frozen@example.com",
		IsActive: false,
	})
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, "frozen", "password123")
	s.ErrorIs(err, ErrAccountInactive)
}

func (s *ServiceSuite) TestAuthenticateIssuesNoTokenOnFailure() {
	s.random.QueueToken("would-be-access", "would-be-refresh")

	_, err := s.service.Authenticate(s.ctx, "testuser", "wrongpassword")
	s.Require().ErrorIs(err, ErrInvalidCredentials)

	_, err = s.storage.GetToken(s.ctx, "would-be-access")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

func (s *ServiceSuite) TestAuthenticateTwiceYieldsDistinctTokens() {
	pair1, err := s.service.Authenticate(s.ctx, "testuser", "password123")
	s.Require().NoError(err)
	pair2, err := s.service.Authenticate(s.ctx, "testuser", "password123")
	s.Require().NoError(err)

	s.NotEqual(pair1.AccessToken, pair2.AccessToken)
	s.NotEqual(pair1.RefreshToken, pair2.RefreshToken)

	// The earlier pair stays valid; sessions are independent
	_, err = s.service.GetUserInfo(s.ctx, pair1.AccessToken)
	s.NoError(err)
}

// GetUserInfo tests

func (s *ServiceSuite) TestGetUserInfoSucceeds() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	cred, err := s.service.GetUserInfo(s.ctx, pair.AccessToken)
	s.Require().NoError(err)
	s.Equal(model.UserID("usr_001"), cred.UserID)
	s.Equal("testuser", cred.Username)
	s.Equal("testuser@example.com", cred.Email)
	s.True(cred.IsActive)
}

func (s *ServiceSuite) TestGetUserInfoFailsWithUnknownToken() {
	_, err := s.service.GetUserInfo(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGetUserInfoFailsWithEmptyToken() {
	_, err := s.service.GetUserInfo(s.ctx, "")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGetUserInfoRejectsRefreshToken() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	_, err := s.service.GetUserInfo(s.ctx, pair.RefreshToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGetUserInfoFailsWhenExpired() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	// Advance time past the access token lifetime
	s.clock.Advance(61 * time.Minute)

	_, err := s.service.GetUserInfo(s.ctx, pair.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGetUserInfoSucceedsJustBeforeExpiry() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	s.clock.Advance(59 * time.Minute)

	_, err := s.service.GetUserInfo(s.ctx, pair.AccessToken)
	s.NoError(err)
}

// RefreshToken tests

func (s *ServiceSuite) TestRefreshTokenSucceeds() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	refreshed, err := s.service.RefreshToken(s.ctx, pair.RefreshToken)
	s.Require().NoError(err)

	s.NotEmpty(refreshed.AccessToken)
	s.NotEqual(pair.AccessToken, refreshed.AccessToken)

	_, err = s.service.GetUserInfo(s.ctx, refreshed.AccessToken)
	s.NoError(err)
}

func (s *ServiceSuite) TestRefreshTokenRejectsAccessToken() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	_, err := s.service.RefreshToken(s.ctx, pair.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestRefreshTokenInvalidatesOldRefreshToken() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	_, err := s.service.RefreshToken(s.ctx, pair.RefreshToken)
	s.Require().NoError(err)

	// Replaying the rotated-out token fails
	_, err = s.service.RefreshToken(s.ctx, pair.RefreshToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestRefreshTokenFailsWhenExpired() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.RefreshToken(s.ctx, pair.RefreshToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestRefreshTokenOutlivesAccessToken() {
	pair, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	// Access token expired, refresh token still good
	s.clock.Advance(2 * time.Hour)

	_, err := s.service.GetUserInfo(s.ctx, pair.AccessToken)
	s.Require().ErrorIs(err, ErrInvalidToken)

	refreshed, err := s.service.RefreshToken(s.ctx, pair.RefreshToken)
	s.Require().NoError(err)

	_, err = s.service.GetUserInfo(s.ctx, refreshed.AccessToken)
	s.NoError(err)
}

// CleanExpiredTokens tests

func (s *ServiceSuite) TestCleanExpiredTokensRemovesExpired() {
	pair1, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	// Let pair1 expire entirely, then mint a fresh pair
	s.clock.Advance(25 * time.Hour)
	pair2, _ := s.service.Authenticate(s.ctx, "testuser", "password123")

	removed, err := s.service.CleanExpiredTokens(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, removed)

	_, err = s.storage.GetToken(s.ctx, pair1.AccessToken)
	s.ErrorIs(err, model.ErrTokenNotFound)
	_, err = s.storage.GetToken(s.ctx, pair1.RefreshToken)
	s.ErrorIs(err, model.ErrTokenNotFound)

	_, err = s.service.GetUserInfo(s.ctx, pair2.AccessToken)
	s.NoError(err)
}

func (s *ServiceSuite) TestCleanExpiredTokensNoopWhenNoneExpired() {
	_, _ = s.service.Authenticate(s.ctx, "testuser", "password123")

	removed, err := s.service.CleanExpiredTokens(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, removed)
}

// Config tests

func (s *ServiceSuite) TestCustomTokenLifetimes() {
	service := New(s.storage, s.clock, s.random, Config{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: 5 * time.Minute,
	}, testutil.NopLogger())

	pair, err := service.Authenticate(s.ctx, "testuser", "password123")
	s.Require().NoError(err)
	s.Equal(60, pair.ExpiresIn)

	s.clock.Advance(2 * time.Minute)

	_, err = service.GetUserInfo(s.ctx, pair.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = service.RefreshToken(s.ctx, pair.RefreshToken)
	s.NoError(err)
}
