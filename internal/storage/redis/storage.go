package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Uniqueness of player usernames and emails is enforced with SETNX on the
// index keys, so concurrent creates race on Redis rather than in this
// process. Token keys carry a TTL equal to the token's validity window.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialKey(cred.Username), data, 0).Err()
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Token operations

func (s *Storage) SaveToken(ctx context.Context, token *model.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	// TTL matches the token's validity window so Redis evicts it at expiry
	ttl := token.ExpiresAt.Sub(token.IssuedAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, tokenKey(token.Value), data, ttl).Err()
}

func (s *Storage) GetToken(ctx context.Context, value string) (*model.Token, error) {
	data, err := s.client.Get(ctx, tokenKey(value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTokenNotFound
		}
		return nil, err
	}

	var token model.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Storage) DeleteToken(ctx context.Context, value string) error {
	return s.client.Del(ctx, tokenKey(value)).Err()
}

func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	// Redis evicts token keys via TTL; nothing to sweep here
	return 0, nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.PlayerAccount) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Claim both index keys before inserting; SETNX loses to an existing claim
	ok, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrUsernameTaken
	}

	ok, err = s.client.SetNX(ctx, emailIndexKey(player.Email), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		// Roll back the username claim
		_ = s.client.Del(ctx, usernameIndexKey(player.Username)).Err()
		return model.ErrEmailTaken
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.RPush(ctx, playerOrderKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerAccount, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.PlayerAccount
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerAccount, error) {
	ids, err := s.client.LRange(ctx, playerOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.PlayerAccount{}, nil
	}

	players := make([]*model.PlayerAccount, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.PlayerAccount) error {
	existing, err := s.GetPlayer(ctx, player.ID)
	if err != nil {
		return err
	}

	if player.Username != existing.Username {
		ok, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), string(player.ID), 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrUsernameTaken
		}
		_ = s.client.Del(ctx, usernameIndexKey(existing.Username)).Err()
	}

	if player.Email != existing.Email {
		ok, err := s.client.SetNX(ctx, emailIndexKey(player.Email), string(player.ID), 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			if player.Username != existing.Username {
				// Restore the username claim moved above
				_ = s.client.Del(ctx, usernameIndexKey(player.Username)).Err()
				_ = s.client.SetNX(ctx, usernameIndexKey(existing.Username), string(player.ID), 0).Err()
			}
			return model.ErrEmailTaken
		}
		_ = s.client.Del(ctx, emailIndexKey(existing.Email)).Err()
	}

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, usernameIndexKey(player.Username))
	pipe.Del(ctx, emailIndexKey(player.Email))
	pipe.LRem(ctx, playerOrderKey(), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}
