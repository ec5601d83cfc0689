package storage

import (
	"context"
	"time"

	"github.com/psn-tools/psnemu/internal/model"
)

// Storage defines the interface for data persistence.
//
// CreatePlayer and UpdatePlayer enforce the username/email uniqueness
// invariant atomically: the check and the write happen under the backend's
// own synchronization, so concurrent calls cannot both pass the check.
type Storage interface {
	// Credential operations (identity service seed data)
	SaveCredential(ctx context.Context, cred *model.Credential) error
	GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error)

	// Token operations (identity service)
	SaveToken(ctx context.Context, token *model.Token) error
	GetToken(ctx context.Context, value string) (*model.Token, error)
	DeleteToken(ctx context.Context, value string) error
	// DeleteExpiredTokens evicts tokens expired as of now and reports how
	// many were removed. Backends with native TTLs may treat this as a no-op.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)

	// Player operations (account service)
	CreatePlayer(ctx context.Context, player *model.PlayerAccount) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerAccount, error)
	// ListPlayers returns all players in insertion order
	ListPlayers(ctx context.Context) ([]*model.PlayerAccount, error)
	UpdatePlayer(ctx context.Context, player *model.PlayerAccount) error
	DeletePlayer(ctx context.Context, id model.PlayerID) error
}
