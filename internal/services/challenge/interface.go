package challenge

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/quizduel/quizduel/internal/services/challenge Service

// Service owns the friend challenge workflow: proposing, responding and
// re-delivering pending challenges to reconnecting players
type Service interface {
	// Propose creates a pending challenge and notifies the challenged player
	Propose(ctx context.Context, input *ProposeInput) (*ProposeOutput, error)

	// Respond resolves a pending challenge. Accepting creates the friend
	// session; a second response fails with ErrAlreadyResolved.
	Respond(ctx context.Context, input *RespondInput) (*RespondOutput, error)

	// ListPending returns the challenges awaiting the player's response,
	// oldest first
	ListPending(ctx context.Context, input *ListPendingInput) (*ListPendingOutput, error)

	// DeliverPending pushes every pending challenge to a freshly
	// authenticated connection
	DeliverPending(ctx context.Context, playerID string) error
}
