package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// KEYS[1] = counter key, ARGV[1] = window in seconds.
// Returns {count, ttl}.
var incrScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

const keyPrefix = "robo:rl:"

// Redis is a fixed-window limiter shared by every server instance that
// points at the same Redis.
type Redis struct {
	client goredis.Scripter
	limit  int
	window time.Duration
}

func NewRedis(client goredis.Scripter, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	secs := int(r.window.Seconds())
	if secs < 1 {
		secs = 1
	}
	raw, err := incrScript.Run(ctx, r.client, []string{keyPrefix + key}, secs).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit: %w", err)
	}
	count, ttl, err := parseReply(raw)
	if err != nil {
		return Result{}, err
	}
	return result(int(count), r.limit, time.Now().Add(time.Duration(ttl)*time.Second)), nil
}

func parseReply(raw any) (count, ttl int64, err error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) < 2 {
		return 0, 0, errors.New("redis rate limit: unexpected reply format")
	}
	count, ok1 := arr[0].(int64)
	ttl, ok2 := arr[1].(int64)
	if !ok1 || !ok2 {
		return 0, 0, errors.New("redis rate limit: unexpected reply types")
	}
	return count, ttl, nil
}

// Connect parses a redis:// or rediss:// URL and verifies the server
// answers PING within dialTimeout.
func Connect(ctx context.Context, url string, dialTimeout time.Duration) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if dialTimeout > 0 {
		opts.DialTimeout = dialTimeout
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
