package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis
const DefaultKeyPrefix = "studiobid:session:"

// RedisRepo implements SessionDB on Redis. Each session is one JSON string
// under <prefix><id> with the ttl refreshed on every save.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisOption configures a RedisRepo
type RedisOption func(*RedisRepo)

// WithKeyPrefix sets the key prefix
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisRepo) {
		r.prefix = prefix
	}
}

// NewRedisRepo creates a Redis-backed session store
func NewRedisRepo(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisRepo {
	r := &RedisRepo{
		client: client,
		ttl:    ttl,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRepo) key(id string) string {
	return r.prefix + id
}

// Load reads and decodes the session stored under id
func (r *RedisRepo) Load(ctx context.Context, id string) (model.Session, error) {
	const op = "repository.RedisRepo.Load"

	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, fmt.Errorf("%s: %s: %w", op, id, biddingerrors.ErrSessionNotFound)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("%s: get: %w", op, err)
	}

	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return model.Session{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	session.ID = id
	return session, nil
}

// Save encodes session and writes it with the configured ttl
func (r *RedisRepo) Save(ctx context.Context, session model.Session) error {
	const op = "repository.RedisRepo.Save"
	if session.ID == "" {
		return fmt.Errorf("%s: empty id", op)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), string(raw), r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: set: %w", op, err)
	}
	return nil
}

// Delete removes the session stored under id
func (r *RedisRepo) Delete(ctx context.Context, id string) error {
	const op = "repository.RedisRepo.Delete"
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("%s: del: %w", op, err)
	}
	return nil
}
