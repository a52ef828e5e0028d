package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fitcircle/fitcircle-client/pkg/kv"
)

type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

type store struct {
	client redis.UniversalClient
	prefix string
}

func NewClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewStore(client redis.UniversalClient, keyPrefix string) kv.Store {
	return &store{client: client, prefix: keyPrefix}
}

func (s *store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", kv.ErrStoreUnavailable, key, err)
	}

	return v, true, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", kv.ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: set many: %w", kv.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *store) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, s.key(k))
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("%w: remove: %w", kv.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
