// Package cooldown rate-limits repeatable actions per subject using
// short-lived Redis keys, such as "one verification code per phone per
// minute".
package cooldown

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrActive is returned when the subject is still inside its cooldown window.
var ErrActive = errors.New("cooldown: still active")

// Guard tracks per-subject cooldown windows.
type Guard interface {
	// Acquire starts a cooldown window for key. It returns ErrActive when a
	// previous window has not expired yet.
	Acquire(ctx context.Context, key string, window time.Duration) error
	// Remaining reports how long until the window for key expires. It returns
	// zero when no window is active.
	Remaining(ctx context.Context, key string) (time.Duration, error)
	// Release drops the window for key before it expires.
	Release(ctx context.Context, key string) error
}

// RedisGuard is a Guard backed by Redis SETNX with TTL.
type RedisGuard struct {
	client *redis.Client
	prefix string
}

// New builds a RedisGuard on the given client.
func New(client *redis.Client) *RedisGuard {
	return &RedisGuard{
		client: client,
		prefix: "cooldown:",
	}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, window time.Duration) error {
	acquired, err := g.client.SetNX(ctx, g.prefix+key, time.Now().Unix(), window).Result()
	if err != nil {
		return err
	}
	if !acquired {
		return ErrActive
	}

	return nil
}

func (g *RedisGuard) Remaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := g.client.TTL(ctx, g.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}

	return ttl, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.prefix+key).Err()
}
