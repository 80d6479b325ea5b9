package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKey = "cargoflow:session"

// RedisStorage keeps the credential pair in redis as one JSON value under a
// single key, preserving the write-both-or-nothing guarantee. Useful for
// shared-kiosk deployments where the session must survive the host.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to redis at addr and verifies the connection.
func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	if addr == "" {
		return nil, fmt.Errorf("session: empty redis address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: connect redis: %w", err)
	}
	return &RedisStorage{client: client}, nil
}

// NewRedisStorageFromClient wraps an existing client. Intended for tests.
func NewRedisStorageFromClient(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Load(ctx context.Context) (Credentials, error) {
	data, err := r.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("session: read redis: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, ErrNoCredentials
	}
	if creds.Token == "" {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

func (r *RedisStorage) Save(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		return fmt.Errorf("session: refusing to save empty token")
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}
	if err := r.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("session: write redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("session: clear redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
