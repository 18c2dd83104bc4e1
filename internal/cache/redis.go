// Package cache holds response cache stores shared between instances
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/redis/go-redis/v9"
)

const opTimeout = 2 * time.Second

// RedisStore is a gin-cache store backed by Redis. Values are gob encoded
// like the in-memory store does.
type RedisStore struct {
	c      *redis.Client
	prefix string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects and pings once so a bad address fails at startup
func NewRedisStore(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	c := redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to reach redis at %s, %w", o.Addr, err)
	}

	return &RedisStore{c: c, prefix: "docvault:cache:"}, nil
}

func (s *RedisStore) Get(key string, value any) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := s.c.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return persist.ErrCacheMiss
		}

		return err
	}

	return gob.NewDecoder(bytes.NewReader(b)).Decode(value)
}

func (s *RedisStore) Set(key string, value any, expire time.Duration) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return fmt.Errorf("failed to encode cache value, %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.c.Set(ctx, s.prefix+key, buf.Bytes(), expire).Err()
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.c.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Close() error {
	return s.c.Close()
}
