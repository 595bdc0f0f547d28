package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// State classifies the outcome of a remote-tier lookup. Remote failures are
// an explicit state rather than a hidden exception path: the layered cache
// decides, visibly, to treat them as misses.
type State int

const (
	Hit State = iota
	Miss
	Failed
)

// Result is the tri-state outcome of a remote Get.
type Result struct {
	Value []byte
	State State
	Err   error
}

// RemoteStats reports remote-tier health for monitoring.
type RemoteStats struct {
	Available bool
	Keys      int64
}

// Remote is the shared cache tier. Implementations must tolerate being
// called from concurrent requests.
type Remote interface {
	Get(ctx context.Context, key string) Result
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Stats(ctx context.Context) RemoteStats
	Clear(ctx context.Context) error
}

// RedisConfig configures the Redis remote tier.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Redis implements Remote on a Redis server.
type Redis struct {
	rdb *redis.Client
}

// NewRedis dials Redis and probes it once with PING. Callers that receive an
// error run without a remote tier for the rest of the process lifetime; there
// is no reconnect loop.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Get(ctx context.Context, key string) Result {
	b, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return Result{State: Miss}
	case err != nil:
		return Result{State: Failed, Err: err}
	default:
		return Result{Value: b, State: Hit}
	}
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Stats(ctx context.Context) RemoteStats {
	n, err := r.rdb.DBSize(ctx).Result()
	if err != nil {
		return RemoteStats{Available: false, Keys: -1}
	}
	return RemoteStats{Available: true, Keys: n}
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.rdb.FlushDB(ctx).Err()
}

// Close releases the underlying connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
