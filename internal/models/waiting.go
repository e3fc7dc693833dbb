package models

import (
	"time"
)

// WaitingStatus represents the state of a matchmaking entry
type WaitingStatus string

const (
	// WaitingStatusWaiting indicates the player is still waiting for an opponent
	WaitingStatusWaiting WaitingStatus = "waiting"

	// WaitingStatusMatched indicates the player has been paired
	WaitingStatusMatched WaitingStatus = "matched"
)

// WaitingEntry is a player's ephemeral matchmaking intent.
// At most one live entry exists per player.
type WaitingEntry struct {
	// PlayerID is the waiting player
	PlayerID string `json:"player_id"`

	// Difficulty the player wants to be matched for
	Difficulty string `json:"difficulty"`

	// Status is waiting or matched
	Status WaitingStatus `json:"status"`

	// OpponentID is set once the entry is matched
	OpponentID string `json:"opponent_id,omitempty"`

	// CreatedAt is when the entry was created or last re-queued
	CreatedAt time.Time `json:"created_at"`
}
