package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound   GameError = "session not found"
	ErrSessionFinished   GameError = "session already reached a terminal state"
	ErrNotParticipant    GameError = "player is not a participant of this session"
	ErrNoCurrentQuestion GameError = "no question at the current cursor"
	ErrQuestionExpired   GameError = "submitted question index no longer current"
	ErrAlreadyAnswered   GameError = "player already answered the current question"
	ErrInvalidMode       GameError = "invalid session mode"
	ErrMissingPlayer     GameError = "player ID is required"
	ErrMissingDifficulty GameError = "difficulty is required"
	ErrNilConfig         GameError = "config cannot be nil"
	ErrNilSessionRepo    GameError = "session repository cannot be nil"
	ErrNilQuestionRepo   GameError = "question repository cannot be nil"
	ErrNilProfileRepo    GameError = "profile repository cannot be nil"
	ErrNilSink           GameError = "event sink cannot be nil"
	ErrNilClock          GameError = "clock cannot be nil"
	ErrNilUUIDGenerator  GameError = "UUID generator cannot be nil"
)
