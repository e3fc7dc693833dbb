package waiting

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
	entryKeyPrefix      = "matchqueue:entry:"
	difficultyKeyPrefix = "matchqueue:difficulty:" // Set of waiting player IDs per difficulty
)

var (
	// ErrEntryNotFound is returned when a waiting entry is not found
	ErrEntryNotFound = errors.New("waiting entry not found")

	// ErrNoMatch is returned by ClaimMatch when nobody suitable is waiting
	ErrNoMatch = errors.New("no waiting opponent found")
)

// claimMatchScript pairs the caller with the first other waiting entry of the
// same difficulty. The scan, the status flips and the set removals happen in
// one script execution, so two concurrent claims can never consume the same
// third entry or each other twice.
var claimMatchScript = redis.NewScript(`
local setKey = KEYS[1]
local entryPrefix = ARGV[1]
local me = ARGV[2]

local members = redis.call('SMEMBERS', setKey)
for _, m in ipairs(members) do
	if m ~= me then
		local raw = redis.call('GET', entryPrefix .. m)
		if raw then
			local entry = cjson.decode(raw)
			if entry['status'] == 'waiting' then
				entry['status'] = 'matched'
				entry['opponent_id'] = me
				redis.call('SET', entryPrefix .. m, cjson.encode(entry))

				local mineRaw = redis.call('GET', entryPrefix .. me)
				if mineRaw then
					local mine = cjson.decode(mineRaw)
					mine['status'] = 'matched'
					mine['opponent_id'] = m
					redis.call('SET', entryPrefix .. me, cjson.encode(mine))
				end

				redis.call('SREM', setKey, m)
				redis.call('SREM', setKey, me)
				return redis.call('GET', entryPrefix .. m)
			end
		else
			redis.call('SREM', setKey, m)
		end
	end
end
return false
`)

// Config holds configuration for the Redis waiting repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed waiting repository
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

// Upsert creates or resets a player's waiting entry
func (r *redisRepository) Upsert(ctx context.Context, input *UpsertInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	if input.Entry.PlayerID == "" || input.Entry.Difficulty == "" {
		return errors.New("player ID and difficulty cannot be empty")
	}

	// A re-queue at a new difficulty must leave the old difficulty set
	existing, err := r.Get(ctx, &GetInput{PlayerID: input.Entry.PlayerID})
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return err
	}

	entryJSON, err := json.Marshal(input.Entry)
	if err != nil {
		return fmt.Errorf("failed to marshal waiting entry: %w", err)
	}

	pipe := r.client.Pipeline()

	if existing != nil && existing.Difficulty != input.Entry.Difficulty {
		oldSetKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, existing.Difficulty)
		pipe.SRem(ctx, oldSetKey, input.Entry.PlayerID)
	}

	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, input.Entry.PlayerID)
	pipe.Set(ctx, entryKey, entryJSON, 0)

	if input.Entry.Status == models.WaitingStatusWaiting {
		setKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, input.Entry.Difficulty)
		pipe.SAdd(ctx, setKey, input.Entry.PlayerID)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert waiting entry: %w", err)
	}

	return nil
}

// Get retrieves a player's waiting entry
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.WaitingEntry, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, input.PlayerID)
	entryJSON, err := r.client.Get(ctx, entryKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get waiting entry: %w", err)
	}

	var entry models.WaitingEntry
	if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal waiting entry: %w", err)
	}

	return &entry, nil
}

// Delete removes a player's waiting entry, idempotent
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	entry, err := r.Get(ctx, &GetInput{PlayerID: input.PlayerID})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()

	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, input.PlayerID)
	pipe.Del(ctx, entryKey)

	setKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, entry.Difficulty)
	pipe.SRem(ctx, setKey, input.PlayerID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete waiting entry: %w", err)
	}

	return nil
}

// ClaimMatch atomically pairs the player with any other waiting entry of the same difficulty
func (r *redisRepository) ClaimMatch(ctx context.Context, input *ClaimMatchInput) (*models.WaitingEntry, error) {
	if input == nil || input.PlayerID == "" || input.Difficulty == "" {
		return nil, errors.New("input, player ID and difficulty cannot be empty")
	}

	setKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, input.Difficulty)

	result, err := claimMatchScript.Run(ctx, r.client, []string{setKey}, entryKeyPrefix, input.PlayerID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("failed to claim match: %w", err)
	}

	raw, ok := result.(string)
	if !ok {
		return nil, ErrNoMatch
	}

	var opponent models.WaitingEntry
	if err := json.Unmarshal([]byte(raw), &opponent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal opponent entry: %w", err)
	}

	return &opponent, nil
}
