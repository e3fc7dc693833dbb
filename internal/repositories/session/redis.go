package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quizduel/quizduel/internal/models"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix     = "session:"
	playerSessionsPrefix = "player:sessions:" // Sorted set of session IDs per player
	finishedSessionsKey  = "sessions:finished"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Save persists a session to Redis along with its lookup indexes
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Index the session for each participant, scored by creation time so
	// listings come back most recent first
	for _, playerID := range input.Session.Participants() {
		playerKey := fmt.Sprintf("%s%s", playerSessionsPrefix, playerID)
		pipe.ZAdd(ctx, playerKey, redis.Z{
			Score:  float64(input.Session.CreatedAt.UnixNano()),
			Member: input.Session.ID,
		})
	}

	// Finished sessions are indexed by last update so the janitor can expire them
	if input.Session.Status == models.SessionStatusFinished {
		pipe.ZAdd(ctx, finishedSessionsKey, redis.Z{
			Score:  float64(input.Session.UpdatedAt.Unix()),
			Member: input.Session.ID,
		})
	} else {
		pipe.ZRem(ctx, finishedSessionsKey, input.Session.ID)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID from Redis
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session and its indexes from Redis
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	sess, err := r.Get(ctx, &GetInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	pipe.Del(ctx, sessionKey)

	for _, playerID := range sess.Participants() {
		playerKey := fmt.Sprintf("%s%s", playerSessionsPrefix, playerID)
		pipe.ZRem(ctx, playerKey, input.SessionID)
	}

	pipe.ZRem(ctx, finishedSessionsKey, input.SessionID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// FindByPlayer retrieves a player's sessions, most recent first
func (r *redisRepository) FindByPlayer(ctx context.Context, input *FindByPlayerInput) ([]*models.Session, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	playerKey := fmt.Sprintf("%s%s", playerSessionsPrefix, input.PlayerID)
	sessionIDs, err := r.client.ZRevRange(ctx, playerKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs for player: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		sess, err := r.Get(ctx, &GetInput{SessionID: sessionID})
		if err != nil {
			// Session was deleted after the index read
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		if input.Status != "" && sess.Status != input.Status {
			continue
		}

		sessions = append(sessions, sess)
		if input.Limit > 0 && len(sessions) >= input.Limit {
			break
		}
	}

	return sessions, nil
}

// FindFinishedBefore returns IDs of finished sessions last updated before the cutoff
func (r *redisRepository) FindFinishedBefore(ctx context.Context, input *FindFinishedBeforeInput) ([]string, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ids, err := r.client.ZRangeByScore(ctx, finishedSessionsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("(%d", input.Cutoff.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan finished sessions: %w", err)
	}

	return ids, nil
}
