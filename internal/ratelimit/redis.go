package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisIncrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// running more than one instance behind the same counter.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: strings.TrimSpace(prefix),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || key == "" || l == nil || l.client == nil {
		return true, nil
	}
	ttl := int(window / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	res, err := redisIncrScript.Run(ctx, l.client, []string{l.buildKey(key)}, ttl).Result()
	if err != nil {
		return false, err
	}
	count, ok := res.(int64)
	if !ok {
		return false, errors.New("rate limit redis: unexpected response type")
	}
	return count <= int64(limit), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if l == nil || l.client == nil || key == "" {
		return nil
	}
	return l.client.Del(ctx, l.buildKey(key)).Err()
}

func (l *RedisLimiter) buildKey(key string) string {
	if l.prefix == "" {
		return "rl:" + key
	}
	return l.prefix + ":" + key
}
