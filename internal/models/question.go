package models

// Question is a single multiple-choice question
type Question struct {
	// ID is the stable identifier of the question in the bank
	ID string `json:"id"`

	// Prompt is the question text shown to players
	Prompt string `json:"prompt"`

	// Answers are the candidate answers, including the correct one
	Answers []string `json:"answers"`

	// CorrectAnswer is the expected answer, compared after trimming whitespace
	CorrectAnswer string `json:"correct_answer"`

	// Difficulty the question belongs to
	Difficulty string `json:"difficulty"`
}
