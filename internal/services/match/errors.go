package match

// MatchError is a custom error type for matchmaking errors
type MatchError string

// Error implements the error interface
func (e MatchError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingPlayer     MatchError = "player ID is required"
	ErrMissingDifficulty MatchError = "difficulty is required"
	ErrNilConfig         MatchError = "config cannot be nil"
	ErrNilWaitingRepo    MatchError = "waiting repository cannot be nil"
	ErrNilSessionRepo    MatchError = "session repository cannot be nil"
	ErrNilGameService    MatchError = "game service cannot be nil"
	ErrNilSink           MatchError = "event sink cannot be nil"
	ErrNilClock          MatchError = "clock cannot be nil"
)
