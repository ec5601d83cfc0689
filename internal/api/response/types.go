package response

import (
	"time"

	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/services/identity"
)

// TokenResponse is the response for /auth/token and /auth/refresh
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// TokenResponseFromPair converts an identity.TokenPair
func TokenResponseFromPair(p *identity.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
		IssuedAt:     p.IssuedAt,
	}
}

// UserInfo is the response for /auth/userinfo
type UserInfo struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfoFromCredential converts a credential to its public profile view.
// The password never appears in any response.
func UserInfoFromCredential(c *model.Credential) UserInfo {
	return UserInfo{
		UserID:    string(c.UserID),
		Username:  c.Username,
		Email:     c.Email,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

// Player represents a player account in API responses
type Player struct {
	PlayerID    string    `json:"player_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlayerFromModel converts a model.PlayerAccount
func PlayerFromModel(p *model.PlayerAccount) Player {
	return Player{
		PlayerID:    string(p.ID),
		Username:    p.Username,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlayerList is the response for GET /players
type PlayerList struct {
	Players []Player `json:"players"`
	Count   int      `json:"count"`
}

// PlayerListFromModels converts a slice of player accounts
func PlayerListFromModels(players []*model.PlayerAccount) PlayerList {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayerList{Players: out, Count: len(out)}
}

// PlayerStats is the response for GET /players/{player_id}/stats
type PlayerStats struct {
	PlayerID             string    `json:"player_id"`
	TotalGames           int       `json:"total_games"`
	Wins                 int       `json:"wins"`
	Losses               int       `json:"losses"`
	WinRate              float64   `json:"win_rate"`
	LastPlayed           time.Time `json:"last_played"`
	AchievementsUnlocked int       `json:"achievements_unlocked"`
}

// PlayerStatsFromModel converts a model.PlayerStats
func PlayerStatsFromModel(s *model.PlayerStats) PlayerStats {
	return PlayerStats{
		PlayerID:             string(s.PlayerID),
		TotalGames:           s.TotalGames,
		Wins:                 s.Wins,
		Losses:               s.Losses,
		WinRate:              s.WinRate,
		LastPlayed:           s.LastPlayed,
		AchievementsUnlocked: s.AchievementsUnlocked,
	}
}
