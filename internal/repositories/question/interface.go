package question

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/quizduel/quizduel/internal/repositories/question Repository

// Repository defines the interface to the question bank
type Repository interface {
	// Add stores a question in the bank
	Add(ctx context.Context, input *AddInput) error

	// Sample returns up to Count random questions for a difficulty, shuffled
	Sample(ctx context.Context, input *SampleInput) ([]models.Question, error)
}
