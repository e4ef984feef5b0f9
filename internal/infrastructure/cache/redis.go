// Package cache wraps redis for two jobs: short-TTL serialized ranking
// snapshots on the read path, and per-user refresh in-flight markers. When
// redis is unreachable every operation degrades to a no-op; postgres stays
// the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUnavailable = errors.New("redis unavailable")

type Redis struct {
	client *redis.Client
	logger *log.Logger
	warned atomic.Bool
}

// NewRedis connects using REDIS_HOST/REDIS_PORT/REDIS_PASSWORD. A failed
// initial ping leaves the wrapper in bypass mode rather than failing the
// process.
func NewRedis(logger *log.Logger) *Redis {
	addr := net.JoinHostPort(envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] redis unavailable at %s, bypassing cache: %v", addr, err)
		}
		_ = client.Close()
		return &Redis{logger: logger}
	}
	return &Redis{client: client, logger: logger}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// DefaultTTLFromEnv reads REDIS_TTL (seconds), defaulting to five minutes.
func DefaultTTLFromEnv() time.Duration {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv("REDIS_TTL"))); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return 5 * time.Minute
}

func (r *Redis) bypass() bool {
	return r == nil || r.client == nil
}

// warnOnce reports the first runtime failure and stays quiet afterwards, so
// a dead redis does not flood the log on every request.
func (r *Redis) warnOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warned.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] redis error, bypassing cache: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.bypass() {
		return errUnavailable
	}
	return r.client.Ping(ctx).Err()
}

// GetJSON reports (false, nil) on a miss and when redis is down, so callers
// fall through to postgres without branching on the cause.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.bypass() {
		return false, nil
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		r.warnOnce(err)
		return false, err
	case len(raw) == 0:
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.bypass() {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTLFromEnv()
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.bypass() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

// DeleteByPattern walks SCAN results so invalidation never blocks redis the
// way KEYS would.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.bypass() || strings.TrimSpace(pattern) == "" {
		return nil
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := r.client.Del(ctx, key).Err(); err != nil && r.logger != nil {
			r.logger.Printf("[Cache] delete failed key=%s pattern=%s: %v", key, pattern, err)
		}
	}
	return iter.Err()
}

// SetIfNotExists backs the per-user refresh marker. In bypass mode it
// reports (false, nil); callers that need the marker fall back to their own
// local state.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if r.bypass() {
		return false, nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnOnce(err)
		return false, err
	}
	return ok, nil
}
