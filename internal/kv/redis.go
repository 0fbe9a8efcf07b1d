package kv

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

const redisKeyPrefix = "folio:"

// Redis stores each value under folio:<key> with no expiry.
type Redis struct {
	client *redis.Client
}

// OpenRedis parses a redis:// URL and pings the server.
func OpenRedis(dsn string) (*Redis, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Redis{client: client}, nil
}

var _ Store = (*Redis)(nil)

func (r *Redis) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(redisKeyPrefix + key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, decode(key, raw, dst)
}

func (r *Redis) Set(_ context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	if err := r.client.Set(redisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) SetMany(_ context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := encode(k, v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	_, err := r.client.TxPipelined(func(pipe redis.Pipeliner) error {
		for k, data := range encoded {
			pipe.Set(redisKeyPrefix+k, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set batch: %w", err)
	}
	return nil
}

func (r *Redis) Delete(_ context.Context, key string) error {
	if err := r.client.Del(redisKeyPrefix + key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
