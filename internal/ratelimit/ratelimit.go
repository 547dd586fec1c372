// Package ratelimit provides a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per client key within fixed windows. A nil Limiter
// allows everything, so callers can leave it unconfigured.
type Limiter struct {
	client *redis.Client
	window time.Duration
	max    int
	prefix string
}

// New creates a Redis-backed limiter.
func New(redisURL string, window time.Duration, max int) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client, window, max), nil
}

// NewWithClient creates a limiter from an existing Redis client.
func NewWithClient(client *redis.Client, window time.Duration, max int) *Limiter {
	return &Limiter{
		client: client,
		window: window,
		max:    max,
		prefix: "ratelimit:",
	}
}

func (l *Limiter) key(clientKey string, now time.Time) string {
	bucket := now.Unix() / int64(l.window.Seconds())
	return fmt.Sprintf("%s%s:%d", l.prefix, clientKey, bucket)
}

// Allow reports whether the client may make another request in the current
// window.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	if l == nil {
		return true, nil
	}

	key := l.key(clientKey, time.Now())
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment rate counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire rate counter: %w", err)
		}
	}
	return count <= int64(l.max), nil
}

// Close closes the Redis connection.
func (l *Limiter) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}

// Ping checks if Redis is reachable.
func (l *Limiter) Ping(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.client.Ping(ctx).Err()
}
