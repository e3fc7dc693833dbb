package match

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/quizduel/quizduel/internal/services/match Service

// Service owns the random matchmaking queue: entering, leaving, pairing
// and the status poll
type Service interface {
	// JoinQueue queues the player and immediately attempts to claim a waiting
	// opponent of the same difficulty
	JoinQueue(ctx context.Context, input *JoinQueueInput) (*JoinQueueOutput, error)

	// LeaveQueue removes the player's queue entry, idempotent
	LeaveQueue(ctx context.Context, input *LeaveQueueInput) error

	// Status reports the player's current matchmaking situation
	Status(ctx context.Context, input *StatusInput) (*StatusOutput, error)
}
