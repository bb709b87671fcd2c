package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists session records keyed by the client session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (Record, error)
	SetCustomerToken(ctx context.Context, sessionID, token string) error
	SetGuestToken(ctx context.Context, sessionID, token string) error
	SetAddressIndex(ctx context.Context, sessionID string, index int) error
	Clear(ctx context.Context, sessionID string) error
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:  client,
		baseTTL: 7 * 24 * time.Hour,
	}
}

type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

// Get returns the zero Record for an unknown session id: an absent record
// and an unauthenticated session are the same thing.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (Record, error) {
	empty := Record{AddressIndex: -1}

	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("redis get failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return empty, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) SetCustomerToken(ctx context.Context, sessionID, token string) error {
	return s.update(ctx, sessionID, func(rec *Record) {
		rec.CustomerToken = token
	})
}

func (s *RedisStore) SetGuestToken(ctx context.Context, sessionID, token string) error {
	return s.update(ctx, sessionID, func(rec *Record) {
		rec.GuestToken = token
	})
}

func (s *RedisStore) SetAddressIndex(ctx context.Context, sessionID string, index int) error {
	return s.update(ctx, sessionID, func(rec *Record) {
		rec.AddressIndex = index
	})
}

// Clear wipes the whole record, both tokens included. Used on logout.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

const maxUpdateRetries = 5

// update is an optimistic read-modify-write: the key is WATCHed so a
// concurrent writer (login racing guest-token adoption) aborts the
// transaction instead of having its write overwritten, and we retry.
func (s *RedisStore) update(ctx context.Context, sessionID string, mutate func(*Record)) error {
	key := sessionKey(sessionID)

	txn := func(tx *redis.Tx) error {
		rec := Record{AddressIndex: -1}
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis get failed: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("unmarshal session failed: %w", err)
			}
		}
		mutate(&rec)

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal session failed: %w", err)
		}

		jitter := time.Duration(rand.Intn(30)) * time.Minute
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.baseTTL+jitter)
			return nil
		})
		if err != nil {
			return err
		}
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("session update contended after %d retries: %w", maxUpdateRetries, redis.TxFailedErr)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
