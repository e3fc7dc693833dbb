package httpapi

import (
	"time"

	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
)

// sessionView is the client-facing shape of a session. Questions are
// stripped of their correct answers; grading stays server-side.
type sessionView struct {
	ID                   string                `json:"id"`
	Mode                 models.SessionMode    `json:"mode"`
	PlayerA              string                `json:"player_a"`
	PlayerB              string                `json:"player_b,omitempty"`
	Status               models.SessionStatus  `json:"status"`
	Aborted              bool                  `json:"aborted"`
	Difficulty           string                `json:"difficulty"`
	Questions            []events.QuestionView `json:"questions"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

func newSessionView(sess *models.Session) *sessionView {
	return &sessionView{
		ID:                   sess.ID,
		Mode:                 sess.Mode,
		PlayerA:              sess.PlayerA,
		PlayerB:              sess.PlayerB,
		Status:               sess.Status,
		Aborted:              sess.Aborted,
		Difficulty:           sess.Difficulty,
		Questions:            events.QuestionViews(sess.Questions),
		CurrentQuestionIndex: sess.CurrentQuestionIndex,
		CreatedAt:            sess.CreatedAt,
		UpdatedAt:            sess.UpdatedAt,
	}
}
