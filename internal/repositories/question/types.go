package question

import (
	"github.com/quizduel/quizduel/internal/models"
)

// AddInput contains parameters for storing a question
type AddInput struct {
	// Question is the question to store
	Question *models.Question
}

// SampleInput contains parameters for sampling the bank
type SampleInput struct {
	// Difficulty restricts the sample to one difficulty
	Difficulty string

	// Count is the number of questions requested
	Count int
}
