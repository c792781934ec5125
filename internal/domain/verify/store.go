package verify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes
const (
	keyPrefixCode     = "verify:phone:"
	keyPrefixCooldown = "verify:cooldown:"
)

// CodeStore keeps one pending code per phone
type CodeStore interface {
	// Save replaces any pending code and resets its attempt counter
	Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error
	// Attempt counts one verification attempt and returns the stored hash;
	// found is false when no code is pending.
	Attempt(ctx context.Context, phone string) (codeHash string, attempts int, found bool, err error)
	Delete(ctx context.Context, phone string) error
	// AllowSend reports whether a new code may be sent, starting the cooldown
	AllowSend(ctx context.Context, phone string, cooldown time.Duration) (bool, error)
}

type redisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed code store
func NewRedisStore(client *redis.Client) CodeStore {
	return &redisStore{redis: client}
}

func (s *redisStore) Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	key := keyPrefixCode + phone
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", codeHash, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (s *redisStore) Attempt(ctx context.Context, phone string) (string, int, bool, error) {
	key := keyPrefixCode + phone

	// HINCRBY would create the hash, so only count attempts on existing codes
	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return "", 0, false, err
	}
	if exists == 0 {
		return "", 0, false, nil
	}

	var (
		incr *redis.IntCmd
		get  *redis.StringCmd
	)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, "attempts", 1)
		get = pipe.HGet(ctx, key, "code")
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", 0, false, err
	}

	hash, err := get.Result()
	if errors.Is(err, redis.Nil) {
		// expired between EXISTS and the transaction
		s.redis.Del(ctx, key)
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return hash, int(incr.Val()), true, nil
}

func (s *redisStore) Delete(ctx context.Context, phone string) error {
	return s.redis.Del(ctx, keyPrefixCode+phone).Err()
}

func (s *redisStore) AllowSend(ctx context.Context, phone string, cooldown time.Duration) (bool, error) {
	return s.redis.SetNX(ctx, keyPrefixCooldown+phone, strconv.FormatInt(time.Now().Unix(), 10), cooldown).Result()
}
