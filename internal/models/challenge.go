package models

import (
	"time"
)

// ChallengeStatus represents the state of a friend challenge
type ChallengeStatus string

const (
	// ChallengeStatusPending indicates the challenged player has not responded yet
	ChallengeStatusPending ChallengeStatus = "pending"

	// ChallengeStatusAccepted indicates the challenge was accepted
	ChallengeStatusAccepted ChallengeStatus = "accepted"

	// ChallengeStatusDeclined indicates the challenge was declined
	ChallengeStatusDeclined ChallengeStatus = "declined"
)

// Challenge is a friend-to-friend game invitation.
// Exactly one transition out of pending is valid.
type Challenge struct {
	// ID is the unique identifier for the challenge
	ID string `json:"id"`

	// ChallengerID is the player who proposed the challenge
	ChallengerID string `json:"challenger_id"`

	// ChallengedID is the player being challenged
	ChallengedID string `json:"challenged_id"`

	// Difficulty the resulting session will use
	Difficulty string `json:"difficulty"`

	// Status is pending, accepted or declined
	Status ChallengeStatus `json:"status"`

	// CreatedAt is when the challenge was proposed
	CreatedAt time.Time `json:"created_at"`
}
