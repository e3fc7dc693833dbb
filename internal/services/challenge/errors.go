package challenge

// ChallengeError is a custom error type for challenge-related errors
type ChallengeError string

// Error implements the error interface
func (e ChallengeError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingPlayer     ChallengeError = "player ID is required"
	ErrMissingDifficulty ChallengeError = "difficulty is required"
	ErrSelfChallenge     ChallengeError = "cannot challenge yourself"
	ErrChallengeNotFound ChallengeError = "challenge not found"
	ErrAlreadyResolved   ChallengeError = "challenge already resolved"
	ErrNotChallenged     ChallengeError = "only the challenged player may respond"
	ErrNilConfig         ChallengeError = "config cannot be nil"
	ErrNilChallengeRepo  ChallengeError = "challenge repository cannot be nil"
	ErrNilProfileRepo    ChallengeError = "profile repository cannot be nil"
	ErrNilGameService    ChallengeError = "game service cannot be nil"
	ErrNilSink           ChallengeError = "event sink cannot be nil"
	ErrNilClock          ChallengeError = "clock cannot be nil"
	ErrNilUUIDGenerator  ChallengeError = "UUID generator cannot be nil"
)
