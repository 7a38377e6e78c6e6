package redis

import (
	"fmt"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Key prefix for all session-related data
const keyPrefix = "cardtable"

// playerKey returns the Redis key for a PlayerIdentity
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// allocationKey returns the Redis key for a relay Allocation
func allocationKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:allocation:%s", keyPrefix, code)
}
