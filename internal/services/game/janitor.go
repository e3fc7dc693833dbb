package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
)

const (
	// DefaultJanitorInterval is how often expired finished sessions are swept
	DefaultJanitorInterval = time.Hour

	// DefaultFinishedRetention is how long finished sessions are kept
	DefaultFinishedRetention = time.Hour
)

// StartJanitor runs the periodic sweep of expired finished sessions until
// the context is cancelled. It blocks; run it in its own goroutine.
func (s *service) StartJanitor(ctx context.Context) {
	interval := s.config.JanitorInterval
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session janitor started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.sweepFinished(ctx)
		}
	}
}

// sweepFinished deletes finished sessions past the retention window
func (s *service) sweepFinished(ctx context.Context) {
	retention := s.config.FinishedRetention
	if retention <= 0 {
		retention = DefaultFinishedRetention
	}

	cutoff := s.clock.Now().Add(-retention)
	ids, err := s.sessionRepo.FindFinishedBefore(ctx, &sessionRepo.FindFinishedBeforeInput{Cutoff: cutoff})
	if err != nil {
		s.logger.Error("janitor scan failed", zap.Error(err))
		return
	}

	deleted := 0
	for _, id := range ids {
		if err := s.sessionRepo.Delete(ctx, &sessionRepo.DeleteInput{SessionID: id}); err != nil {
			s.logger.Error("janitor delete failed",
				zap.String("session_id", id),
				zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("janitor swept finished sessions",
			zap.Int("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}
