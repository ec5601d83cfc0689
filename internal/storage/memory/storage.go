package memory

import (
	"context"
	"sync"
	"time"

	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// This is the reference backend: all state lives in process memory and is
// lost on restart. Records are copied on the way in and out so callers
// cannot mutate stored state without going back through the store.
type Storage struct {
	mu sync.RWMutex

	credentials map[string]*model.Credential
	tokens      map[string]*model.Token

	players       map[model.PlayerID]*model.PlayerAccount
	usernameIndex map[string]model.PlayerID
	emailIndex    map[string]model.PlayerID
	playerOrder   []model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		credentials:   make(map[string]*model.Credential),
		tokens:        make(map[string]*model.Token),
		players:       make(map[model.PlayerID]*model.PlayerAccount),
		usernameIndex: make(map[string]model.PlayerID),
		emailIndex:    make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cred
	s.credentials[cred.Username] = &c
	return nil
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[username]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	c := *cred
	return &c, nil
}

// Token operations

func (s *Storage) SaveToken(ctx context.Context, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *token
	s.tokens[token.Value] = &t
	return nil
}

func (s *Storage) GetToken(ctx context.Context, value string) (*model.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[value]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	t := *token
	return &t, nil
}

func (s *Storage) DeleteToken(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, value)
	return nil
}

func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for value, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, value)
			removed++
		}
	}
	return removed, nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.PlayerAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernameIndex[player.Username]; taken {
		return model.ErrUsernameTaken
	}
	if _, taken := s.emailIndex[player.Email]; taken {
		return model.ErrEmailTaken
	}

	p := *player
	s.players[player.ID] = &p
	s.usernameIndex[player.Username] = player.ID
	s.emailIndex[player.Email] = player.ID
	s.playerOrder = append(s.playerOrder, player.ID)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.PlayerAccount, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		if player, ok := s.players[id]; ok {
			p := *player
			players = append(players, &p)
		}
	}
	return players, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.PlayerAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}

	// Re-check uniqueness excluding this record's own values
	if owner, taken := s.usernameIndex[player.Username]; taken && owner != player.ID {
		return model.ErrUsernameTaken
	}
	if owner, taken := s.emailIndex[player.Email]; taken && owner != player.ID {
		return model.ErrEmailTaken
	}

	delete(s.usernameIndex, existing.Username)
	delete(s.emailIndex, existing.Email)

	p := *player
	s.players[player.ID] = &p
	s.usernameIndex[player.Username] = player.ID
	s.emailIndex[player.Email] = player.ID
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	delete(s.usernameIndex, player.Username)
	delete(s.emailIndex, player.Email)
	delete(s.players, id)
	for i, oid := range s.playerOrder {
		if oid == id {
			s.playerOrder = append(s.playerOrder[:i], s.playerOrder[i+1:]...)
			break
		}
	}
	return nil
}
