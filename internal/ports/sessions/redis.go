package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"worktracker.service/internal/core/model"
)

const keyPrefix = "worktracker:active-session:"

// RedisStore shares active sessions between API replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects and pings so a bad address fails at startup.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func key(workerName string) string {
	return keyPrefix + workerName
}

func (r *RedisStore) Start(ctx context.Context, s model.ActiveSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, key(s.WorkerName), b, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, workerName string) (*model.ActiveSession, error) {
	b, err := r.client.Get(ctx, key(workerName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s model.ActiveSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal active session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Clear(ctx context.Context, workerName string) error {
	if err := r.client.Del(ctx, key(workerName)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
