package account

import (
	"context"
	"hash/fnv"
	"log/slog"

	"github.com/psn-tools/psnemu/internal/dependencies/clock"
	"github.com/psn-tools/psnemu/internal/dependencies/random"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/storage"
)

// playerIDBytes is the entropy per player id; hex-encoded this yields the
// plr_<16 hex chars> format of the reference emulator
const playerIDBytes = 8

// UpdateFields carries the optional fields of a player update. Nil means
// "not supplied"; only non-nil fields are applied.
type UpdateFields struct {
	DisplayName *string
	Email       *string
	Status      *model.PlayerStatus
}

// Service implements player-account CRUD and the stats view
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new account service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
	}
}

// CreatePlayer creates a new player account. The storage layer rejects the
// insert if the username or email is already taken, leaving the store
// unchanged.
func (s *Service) CreatePlayer(ctx context.Context, username, email, displayName string) (*model.PlayerAccount, error) {
	s.logger.Info("creating player account", slog.String("username", username))

	if displayName == "" {
		displayName = username
	}

	now := s.clock.Now()
	player := &model.PlayerAccount{
		ID:          model.PlayerID("plr_" + s.random.Hex(playerIDBytes)),
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		Status:      model.PlayerStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player account created",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)
	return player, nil
}

// GetPlayer returns a player account by id
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerAccount, error) {
	return s.storage.GetPlayer(ctx, id)
}

// ListPlayers returns all player accounts in insertion order
func (s *Service) ListPlayers(ctx context.Context) ([]*model.PlayerAccount, error) {
	return s.storage.ListPlayers(ctx)
}

// UpdatePlayer applies the supplied fields to an existing account. Email
// uniqueness is re-checked by the storage layer, excluding the record's own
// current value.
func (s *Service) UpdatePlayer(ctx context.Context, id model.PlayerID, fields UpdateFields) (*model.PlayerAccount, error) {
	s.logger.Info("updating player account", slog.String("player_id", string(id)))

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.DisplayName != nil {
		player.DisplayName = *fields.DisplayName
	}
	if fields.Email != nil {
		player.Email = *fields.Email
	}
	if fields.Status != nil {
		player.Status = *fields.Status
	}
	player.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// DeletePlayer removes a player account. Hard delete: no tombstone remains.
func (s *Service) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.logger.Info("deleting player account", slog.String("player_id", string(id)))
	return s.storage.DeletePlayer(ctx, id)
}

// GetPlayerStats returns the stats view for a player. The emulator has no
// real match history; stats derive deterministically from the player id so
// repeated reads agree.
func (s *Service) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	seed := h.Sum32()

	totalGames := int(seed % 500)
	wins := 0
	if totalGames > 0 {
		wins = int(seed/500) % (totalGames + 1)
	}
	losses := totalGames - wins

	winRate := 0.0
	if totalGames > 0 {
		winRate = float64(wins) / float64(totalGames)
	}

	return &model.PlayerStats{
		PlayerID:             player.ID,
		TotalGames:           totalGames,
		Wins:                 wins,
		Losses:               losses,
		WinRate:              winRate,
		LastPlayed:           player.UpdatedAt,
		AchievementsUnlocked: int(seed % 128),
	}, nil
}
