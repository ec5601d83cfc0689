package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/psn-tools/psnemu/internal/dependencies/clock"
	"github.com/psn-tools/psnemu/internal/dependencies/random"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// tokenBytes is the entropy per token; encoded URL-safe this matches the
// original emulator's token_urlsafe(32) format
const tokenBytes = 32

// TokenPair is the result of a successful authentication or refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	IssuedAt     time.Time
}

// Config holds configuration for the identity service
type Config struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// DefaultConfig returns default token lifetimes
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

// Service implements the identity-provider operations: credential checks,
// token issuance, and token refresh. Tokens are opaque random values looked
// up in the store; there is no signing.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
}

// New creates a new identity service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = DefaultConfig().AccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = DefaultConfig().RefreshTokenTTL
	}
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
		cfg:     cfg,
	}
}

// Authenticate checks a username/password pair against the credential table
// and mints a new access/refresh token pair on success. Passwords are
// compared by plaintext equality, matching the reference emulator.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*TokenPair, error) {
	s.logger.Info("authentication attempt", slog.String("username", username))

	cred, err := s.storage.GetCredentialByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			s.logger.Warn("authentication failed", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if cred.Password != password {
		s.logger.Warn("authentication failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !cred.IsActive {
		return nil, ErrAccountInactive
	}

	pair, err := s.issuePair(ctx, cred.UserID, cred.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("authentication successful", slog.String("username", username))
	return pair, nil
}

// GetUserInfo resolves an access token to its owner's credential record
func (s *Service) GetUserInfo(ctx context.Context, tokenValue string) (*model.Credential, error) {
	token, err := s.validateToken(ctx, tokenValue, model.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	cred, err := s.storage.GetCredentialByUsername(ctx, token.Username)
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// RefreshToken exchanges a valid refresh token for a new access/refresh pair.
// The presented refresh token is invalidated (rotation), so replaying it
// fails.
func (s *Service) RefreshToken(ctx context.Context, refreshValue string) (*TokenPair, error) {
	token, err := s.validateToken(ctx, refreshValue, model.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteToken(ctx, refreshValue); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, token.UserID, token.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("token refreshed", slog.String("username", token.Username))
	return pair, nil
}

// CleanExpiredTokens evicts expired tokens from the store (call periodically)
func (s *Service) CleanExpiredTokens(ctx context.Context) (int, error) {
	return s.storage.DeleteExpiredTokens(ctx, s.clock.Now())
}

// validateToken looks up a token by value and checks its type and expiry
func (s *Service) validateToken(ctx context.Context, value string, want model.TokenType) (*model.Token, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}

	token, err := s.storage.GetToken(ctx, value)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if token.Type != want {
		return nil, ErrInvalidToken
	}

	if token.Expired(s.clock.Now()) {
		_ = s.storage.DeleteToken(ctx, value)
		return nil, ErrInvalidToken
	}

	return token, nil
}

// issuePair mints and stores a new access/refresh token pair
func (s *Service) issuePair(ctx context.Context, userID model.UserID, username string) (*TokenPair, error) {
	now := s.clock.Now()

	access := &model.Token{
		Value:     s.random.Token(tokenBytes),
		Type:      model.TokenTypeAccess,
		UserID:    userID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}
	refresh := &model.Token{
		Value:     s.random.Token(tokenBytes),
		Type:      model.TokenTypeRefresh,
		UserID:    userID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}

	if err := s.storage.SaveToken(ctx, access); err != nil {
		return nil, err
	}
	if err := s.storage.SaveToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
		IssuedAt:     now,
	}, nil
}
