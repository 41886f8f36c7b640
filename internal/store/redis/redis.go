package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"cafepos/backend/internal/store"
)

const defaultPrefix = "cafepos:"

// Store keeps each slot as a plain Redis string under prefix+key, without
// expiry.
type Store struct {
	client *goredis.Client
	prefix string
}

func New(addr string, password string, db int) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return NewWithClient(client, defaultPrefix)
}

func NewWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, store.ErrEmptyKey
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
