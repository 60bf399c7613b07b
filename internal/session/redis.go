package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// Redis stores entries as JSON values with a TTL.
type Redis struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

// DialRedis connects to cfg.RedisAddr and checks the connection.
func DialRedis(ctx context.Context, cfg *Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return newRedis(client, cfg.RedisPrefix, cfg.TTL), nil
}

func newRedis(client redisClient, prefix string, ttl time.Duration) *Redis {
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, id string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.prefix+id, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string) (Entry, error) {
	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return e, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
