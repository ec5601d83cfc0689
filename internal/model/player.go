package model

import "time"

// PlayerID uniquely identifies a player account
type PlayerID string

// PlayerStatus is the lifecycle state of a player account
type PlayerStatus string

const (
	PlayerStatusActive    PlayerStatus = "active"
	PlayerStatusSuspended PlayerStatus = "suspended"
	PlayerStatusInactive  PlayerStatus = "inactive"
)

// ValidPlayerStatus reports whether s is a known status value
func ValidPlayerStatus(s PlayerStatus) bool {
	switch s {
	case PlayerStatusActive, PlayerStatusSuspended, PlayerStatusInactive:
		return true
	}
	return false
}

// PlayerAccount is a player record. Username and email are unique across all
// live accounts; the storage layer enforces both under its own lock.
type PlayerAccount struct {
	ID          PlayerID
	Username    string
	Email       string
	DisplayName string
	Status      PlayerStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlayerStats is a read-only derived view keyed by player id
type PlayerStats struct {
	PlayerID             PlayerID
	TotalGames           int
	Wins                 int
	Losses               int
	WinRate              float64
	LastPlayed           time.Time
	AchievementsUnlocked int
}
