package challenge

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
	challengeKeyPrefix = "challenge:"
	pendingKeyPrefix   = "challenge:pending:" // Sorted set of pending challenge IDs per challenged player
)

var (
	// ErrChallengeNotFound is returned when a challenge is not found
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrAlreadyResolved is returned when transitioning a challenge that already left pending
	ErrAlreadyResolved = errors.New("challenge already resolved")
)

// transitionScript flips a pending challenge to a terminal status and drops it
// from the pending index in one execution. Returns the updated document, or a
// numeric code: 0 when the challenge is missing, 1 when it is not pending.
var transitionScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end

local challenge = cjson.decode(raw)
if challenge['status'] ~= 'pending' then
	return 1
end

challenge['status'] = ARGV[1]
local updated = cjson.encode(challenge)
redis.call('SET', KEYS[1], updated)
redis.call('ZREM', KEYS[2], challenge['id'])
return updated
`)

// Config holds configuration for the Redis challenge repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed challenge repository
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

// Save persists a challenge to Redis along with its pending index
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Challenge == nil {
		return errors.New("input and challenge cannot be nil")
	}

	challengeJSON, err := json.Marshal(input.Challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	pipe := r.client.Pipeline()

	challengeKey := fmt.Sprintf("%s%s", challengeKeyPrefix, input.Challenge.ID)
	pipe.Set(ctx, challengeKey, challengeJSON, 0)

	pendingKey := fmt.Sprintf("%s%s", pendingKeyPrefix, input.Challenge.ChallengedID)
	if input.Challenge.Status == models.ChallengeStatusPending {
		pipe.ZAdd(ctx, pendingKey, redis.Z{
			Score:  float64(input.Challenge.CreatedAt.UnixNano()),
			Member: input.Challenge.ID,
		})
	} else {
		pipe.ZRem(ctx, pendingKey, input.Challenge.ID)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}

	return nil
}

// Get retrieves a challenge by ID from Redis
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Challenge, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, errors.New("input and challenge ID cannot be empty")
	}

	challengeKey := fmt.Sprintf("%s%s", challengeKeyPrefix, input.ChallengeID)
	challengeJSON, err := r.client.Get(ctx, challengeKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	var ch models.Challenge
	if err := json.Unmarshal([]byte(challengeJSON), &ch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	return &ch, nil
}

// Transition moves a pending challenge to a terminal status
func (r *redisRepository) Transition(ctx context.Context, input *TransitionInput) (*models.Challenge, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, errors.New("input and challenge ID cannot be empty")
	}

	if input.To != models.ChallengeStatusAccepted && input.To != models.ChallengeStatusDeclined {
		return nil, errors.New("transition target must be accepted or declined")
	}

	// The pending index key needs the challenged player, so fetch first. The
	// script re-checks status, so a racing response still loses cleanly.
	ch, err := r.Get(ctx, &GetInput{ChallengeID: input.ChallengeID})
	if err != nil {
		return nil, err
	}

	challengeKey := fmt.Sprintf("%s%s", challengeKeyPrefix, input.ChallengeID)
	pendingKey := fmt.Sprintf("%s%s", pendingKeyPrefix, ch.ChallengedID)

	result, err := transitionScript.Run(ctx, r.client, []string{challengeKey, pendingKey}, string(input.To)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to transition challenge: %w", err)
	}

	switch v := result.(type) {
	case string:
		var updated models.Challenge
		if err := json.Unmarshal([]byte(v), &updated); err != nil {
			return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
		}
		return &updated, nil
	case int64:
		if v == 0 {
			return nil, ErrChallengeNotFound
		}
		return nil, ErrAlreadyResolved
	default:
		return nil, fmt.Errorf("unexpected transition result %v", result)
	}
}

// ListPendingFor returns the pending challenges addressed to a player, oldest first
func (r *redisRepository) ListPendingFor(ctx context.Context, input *ListPendingForInput) ([]*models.Challenge, error) {
	if input == nil || input.ChallengedID == "" {
		return nil, errors.New("input and challenged ID cannot be empty")
	}

	pendingKey := fmt.Sprintf("%s%s", pendingKeyPrefix, input.ChallengedID)
	ids, err := r.client.ZRange(ctx, pendingKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending challenges: %w", err)
	}

	challenges := make([]*models.Challenge, 0, len(ids))
	for _, id := range ids {
		ch, err := r.Get(ctx, &GetInput{ChallengeID: id})
		if err != nil {
			if errors.Is(err, ErrChallengeNotFound) {
				continue
			}
			return nil, err
		}
		challenges = append(challenges, ch)
	}

	return challenges, nil
}
