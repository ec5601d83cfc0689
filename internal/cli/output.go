package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case TokenResult:
		o.printTokenResult(v)
	case UserInfo:
		o.printUserInfo(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// TokenResult response type (matches API)
type TokenResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserInfo response type
type UserInfo struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Player response type
type Player struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
	Count   int      `json:"count"`
}

// PlayerStats response type
type PlayerStats struct {
	PlayerID             string    `json:"player_id"`
	TotalGames           int       `json:"total_games"`
	Wins                 int       `json:"wins"`
	Losses               int       `json:"losses"`
	WinRate              float64   `json:"win_rate"`
	LastPlayed           time.Time `json:"last_played"`
	AchievementsUnlocked int       `json:"achievements_unlocked"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printTokenResult(t TokenResult) {
	fmt.Printf("Access Token: %s\n", t.AccessToken)
	fmt.Printf("Refresh Token: %s\n", t.RefreshToken)
	fmt.Printf("Type: %s\n", t.TokenType)
	fmt.Printf("Expires In: %ds\n", t.ExpiresIn)
	fmt.Printf("Issued At: %s\n", t.IssuedAt.Format(time.RFC3339))
}

func (o *Output) printUserInfo(u UserInfo) {
	activeStr := "no"
	if u.IsActive {
		activeStr = "yes"
	}
	fmt.Printf("User: %s (%s)\n", u.Username, u.UserID)
	fmt.Printf("Email: %s\n", u.Email)
	fmt.Printf("Active: %s\n", activeStr)
	fmt.Printf("Created: %s\n", u.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Username, p.ID)
	fmt.Printf("Display Name: %s\n", p.DisplayName)
	fmt.Printf("Email: %s\n", p.Email)
	fmt.Printf("Status: %s\n", p.Status)
	fmt.Printf("Created: %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", p.UpdatedAt.Format(time.RFC3339))
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Players (%d):\n", l.Count)
	for _, p := range l.Players {
		fmt.Printf("  - %s (%s) - %s\n", p.Username, p.ID, p.Status)
	}
}

func (o *Output) printPlayerStats(s PlayerStats) {
	fmt.Printf("Stats for %s:\n", s.PlayerID)
	fmt.Printf("  Games: %d (W: %d / L: %d)\n", s.TotalGames, s.Wins, s.Losses)
	fmt.Printf("  Win Rate: %.2f\n", s.WinRate)
	fmt.Printf("  Achievements: %d\n", s.AchievementsUnlocked)
	fmt.Printf("  Last Played: %s\n", s.LastPlayed.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
