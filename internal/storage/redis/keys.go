package redis

import (
	"fmt"

	"github.com/psn-tools/psnemu/internal/model"
)

// Key prefix for all emulator data
const keyPrefix = "psnemu"

// credentialKey returns the Redis key for a Credential, indexed by username
func credentialKey(username string) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, username)
}

// tokenKey returns the Redis key for a Token
func tokenKey(value string) string {
	return fmt.Sprintf("%s:token:%s", keyPrefix, value)
}

// playerKey returns the Redis key for a PlayerAccount
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> player_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// playerOrderKey returns the Redis key for the LIST of player ids in insertion order
func playerOrderKey() string {
	return fmt.Sprintf("%s:players:order", keyPrefix)
}
