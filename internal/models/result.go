package models

// Outcome summarizes a finished session from one player's perspective
type Outcome string

const (
	// OutcomeWin indicates the player out-scored the opponent
	OutcomeWin Outcome = "win"

	// OutcomeLose indicates the opponent out-scored the player
	OutcomeLose Outcome = "lose"

	// OutcomeDraw indicates a score tie in a two-player session
	OutcomeDraw Outcome = "draw"

	// OutcomeCompleted is the terminal outcome of a solo session
	OutcomeCompleted Outcome = "completed"
)

// PlayerResult is one participant's share of a session result
type PlayerResult struct {
	// PlayerID identifies the participant
	PlayerID string `json:"player_id"`

	// DisplayName is resolved from the profile lookup at result time
	DisplayName string `json:"display_name"`

	// Score is the number of correctly answered questions
	Score int `json:"score"`
}

// SessionResult is the final outcome of a finished session
type SessionResult struct {
	// SessionID identifies the finished session
	SessionID string `json:"session_id"`

	// Mode of the finished session
	Mode SessionMode `json:"mode"`

	// Players holds one entry per participant
	Players []PlayerResult `json:"players"`

	// WinnerID is the higher-scoring player, empty on a draw or for solo
	WinnerID string `json:"winner_id,omitempty"`

	// Draw is true when a two-player session ends with equal scores
	Draw bool `json:"draw"`
}
