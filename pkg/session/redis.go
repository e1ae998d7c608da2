package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces session keys within a shared Redis database.
const defaultKeyPrefix = "session:"

// Redis is a session store backed by Redis. Sessions are stored as JSON
// under prefixed keys with a TTL derived from their expiry, so Redis
// evicts them without any sweeping on our side.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix sets the key prefix. Default is "session:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a Redis-backed session store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: defaultKeyPrefix,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create persists a new session with a TTL matching its expiry.
func (r *Redis) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, s)
}

// Get retrieves a session by its token.
func (r *Redis) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: decode session: %w", err)
	}

	// Redis TTL handles expiry, but the clock check guards against
	// KEEPTTL misuse and skew between app and Redis hosts.
	if time.Now().After(rec.ExpiresAt) {
		_ = r.client.Del(ctx, r.prefix+token).Err()
		return nil, ErrExpired
	}

	return rec.restore(), nil
}

// Update saves changes to an existing session, refreshing its TTL.
func (r *Redis) Update(ctx context.Context, s *Session) error {
	exists, err := r.client.Exists(ctx, r.prefix+s.Token).Result()
	if err != nil {
		return fmt.Errorf("session: redis exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return r.write(ctx, s)
}

// Delete removes a session by its token.
func (r *Redis) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.prefix+token).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func (r *Redis) write(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s.snapshot())
	if err != nil {
		return fmt.Errorf("session: encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+s.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}
