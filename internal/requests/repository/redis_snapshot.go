package repository

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "roadsaver:quote:"

// RedisSnapshotStore keeps snapshots as JSON strings with a TTL.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a go-redis client from a redis:// or rediss:// URL.
func NewRedisClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return redis.NewClient(opt), nil
}

// NewRedisSnapshotStore creates a store on client.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

// Save stores or replaces the snapshot of a request.
func (r *RedisSnapshotStore) Save(ctx context.Context, snap domain.QuoteSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode quote snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(snap.RequestID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store quote snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot or a NotFound error when the key is absent.
func (r *RedisSnapshotStore) Get(ctx context.Context, requestID uuid.UUID) (domain.QuoteSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuoteSnapshot{}, apperr.NotFound(msgSnapshotNotFound)
	}
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("load quote snapshot: %w", err)
	}

	var snap domain.QuoteSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("decode quote snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes the snapshot.
func (r *RedisSnapshotStore) Delete(ctx context.Context, requestID uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotKey(requestID)).Err(); err != nil {
		return fmt.Errorf("delete quote snapshot: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *RedisSnapshotStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func snapshotKey(id uuid.UUID) string {
	return snapshotKeyPrefix + id.String()
}
