package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an untouched draft survives. Every save
// refreshes it.
const sessionTTL = 24 * time.Hour

const keyPrefix = "draft:"

// RedisStore is the production Store backed by redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// ConnectRedis opens a redis client from a URL and verifies the connection.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func sessionKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// Load reads the session blob. Absence and malformed data both yield
// (nil, nil).
func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (*State, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft session: %w", err)
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt blob is treated as no draft at all.
		return nil, nil
	}
	return &st, nil
}

// Save serializes and writes the session, refreshing its TTL.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, st *State) error {
	st.UpdatedAt = time.Now()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal draft session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft session: %w", err)
	}
	return nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *RedisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear draft session: %w", err)
	}
	return nil
}
