package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:v1:"

// Store persists session records. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Lookup(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions as JSON values whose key TTL matches the record expiry.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes the record with a TTL ending at its expiry.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", rec.ID)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+rec.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Lookup returns the record for id or ErrSessionNotFound.
func (s *RedisStore) Lookup(ctx context.Context, id string) (Record, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrSessionNotFound
		}
		return Record{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A blob we cannot read is as good as absent.
		return Record{}, ErrSessionNotFound
	}
	rec.ID = id
	return rec, nil
}

// Delete removes the record. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
