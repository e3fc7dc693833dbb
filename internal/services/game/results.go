package game

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/models"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
)

// statisticsWindow is how many recent sessions the summary covers
const statisticsWindow = 10

// score counts correct answers. Index-aligned with the question batch;
// a short answer slice simply contributes nothing past its length.
func score(questions []models.Question, answers []string) int {
	total := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		a := strings.TrimSpace(answers[i])
		if a != "" && a == strings.TrimSpace(q.CorrectAnswer) {
			total++
		}
	}
	return total
}

// displayName resolves a player's display name, falling back to the
// player ID when no profile exists
func (s *service) displayName(ctx context.Context, playerID string) string {
	p, err := s.profileRepo.Get(ctx, &profileRepo.GetInput{PlayerID: playerID})
	if err != nil {
		if !errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("profile lookup failed during result resolution",
				zap.String("player_id", playerID),
				zap.Error(err))
		}
		return playerID
	}
	return p.DisplayName
}

// computeResult builds the final scoreboard for a finished session
func (s *service) computeResult(ctx context.Context, sess *models.Session) (*models.SessionResult, error) {
	result := &models.SessionResult{
		SessionID: sess.ID,
		Mode:      sess.Mode,
		Players: []models.PlayerResult{
			{
				PlayerID:    sess.PlayerA,
				DisplayName: s.displayName(ctx, sess.PlayerA),
				Score:       score(sess.Questions, sess.AnswersA),
			},
		},
	}

	if sess.Mode == models.ModeSolo {
		return result, nil
	}

	result.Players = append(result.Players, models.PlayerResult{
		PlayerID:    sess.PlayerB,
		DisplayName: s.displayName(ctx, sess.PlayerB),
		Score:       score(sess.Questions, sess.AnswersB),
	})

	scoreA := result.Players[0].Score
	scoreB := result.Players[1].Score
	switch {
	case scoreA > scoreB:
		result.WinnerID = sess.PlayerA
	case scoreB > scoreA:
		result.WinnerID = sess.PlayerB
	default:
		result.Draw = true
	}

	return result, nil
}

// outcomeFor summarizes a finished session from one player's perspective
func outcomeFor(sess *models.Session, playerID string) models.Outcome {
	if sess.Mode == models.ModeSolo {
		return models.OutcomeCompleted
	}

	mine := score(sess.Questions, sess.AnswersA)
	theirs := score(sess.Questions, sess.AnswersB)
	if playerID == sess.PlayerB {
		mine, theirs = theirs, mine
	}

	switch {
	case mine > theirs:
		return models.OutcomeWin
	case mine < theirs:
		return models.OutcomeLose
	default:
		return models.OutcomeDraw
	}
}

// GetStatistics summarizes a player's recent sessions
func (s *service) GetStatistics(ctx context.Context, input *GetStatisticsInput) (*GetStatisticsOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	sessions, err := s.sessionRepo.FindByPlayer(ctx, &sessionRepo.FindByPlayerInput{
		PlayerID: input.PlayerID,
		Status:   models.SessionStatusFinished,
		Limit:    statisticsWindow,
	})
	if err != nil {
		return nil, err
	}

	records := make([]StatisticsRecord, 0, len(sessions))
	for _, sess := range sessions {
		answers := sess.AnswersA
		if input.PlayerID == sess.PlayerB {
			answers = sess.AnswersB
		}

		records = append(records, StatisticsRecord{
			SessionID:      sess.ID,
			Mode:           sess.Mode,
			CorrectAnswers: score(sess.Questions, answers),
			TotalQuestions: len(sess.Questions),
			Outcome:        outcomeFor(sess, input.PlayerID),
		})
	}

	return &GetStatisticsOutput{Records: records}, nil
}
