package models

import (
	"time"
)

// SessionMode identifies how a session was created and how many players it holds
type SessionMode string

const (
	// ModeSolo is a single-player session with no opponent
	ModeSolo SessionMode = "solo"

	// ModeRandom is a two-player session created by the matchmaking queue
	ModeRandom SessionMode = "random"

	// ModeFriend is a two-player session created by an accepted challenge
	ModeFriend SessionMode = "friend"
)

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	// SessionStatusStarted indicates a session is in progress
	SessionStatusStarted SessionStatus = "started"

	// SessionStatusFinished indicates a session ran through all its questions
	SessionStatusFinished SessionStatus = "finished"

	// SessionStatusAborted indicates a session was terminated before completion
	SessionStatusAborted SessionStatus = "aborted"
)

// NoAnswer is the recorded answer value for a question a player never answered.
// Question answers are never empty strings, so it can never grade as correct.
const NoAnswer = ""

// Session represents one running or finished quiz game
type Session struct {
	// ID is the unique identifier for the session
	ID string `json:"id"`

	// Mode is how this session was created (solo, random, friend)
	Mode SessionMode `json:"mode"`

	// PlayerA is the first participant's player ID
	PlayerA string `json:"player_a"`

	// PlayerB is the second participant's player ID, empty for solo sessions
	PlayerB string `json:"player_b,omitempty"`

	// Status is the current lifecycle state
	Status SessionStatus `json:"status"`

	// Aborted distinguishes a forced termination from a graceful finish
	Aborted bool `json:"aborted"`

	// Difficulty the questions were sampled for
	Difficulty string `json:"difficulty"`

	// Questions is the fixed batch for this session, immutable after creation
	Questions []Question `json:"questions"`

	// CurrentQuestionIndex is the cursor into Questions, monotonically increasing
	CurrentQuestionIndex int `json:"current_question_index"`

	// AnswersA holds PlayerA's submitted answers, index-aligned with Questions
	AnswersA []string `json:"answers_a"`

	// AnswersB holds PlayerB's submitted answers, index-aligned with Questions
	AnswersB []string `json:"answers_b"`

	// AnsweredA is true once PlayerA has answered the current question
	AnsweredA bool `json:"answered_a"`

	// AnsweredB is true once PlayerB has answered the current question
	AnsweredB bool `json:"answered_b"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the session was last updated
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPlayer reports whether the given player participates in this session
func (s *Session) HasPlayer(playerID string) bool {
	return playerID != "" && (playerID == s.PlayerA || playerID == s.PlayerB)
}

// Participants returns the player IDs in the session (one entry for solo)
func (s *Session) Participants() []string {
	if s.Mode == ModeSolo || s.PlayerB == "" {
		return []string{s.PlayerA}
	}
	return []string{s.PlayerA, s.PlayerB}
}

// Terminal reports whether the session reached a final state
func (s *Session) Terminal() bool {
	return s.Status == SessionStatusFinished || s.Status == SessionStatusAborted
}
