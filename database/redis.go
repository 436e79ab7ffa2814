package database

import (
	"context"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NewRedisClient creates a Redis client with the provided configuration
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse Redis URL")
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to ping Redis server")
	}

	log.Info().
		Int("pool_size", cfg.PoolSize).
		Int("min_idle_conns", cfg.MinIdleConns).
		Dur("dial_timeout", cfg.DialTimeout).
		Dur("read_timeout", cfg.ReadTimeout).
		Int("max_retries", cfg.MaxRetries).
		Msg("redis client initialized")
	return client, nil
}

const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

var releaseScript = redis.NewScript(releaseLockScript)

// RedisLocker serializes ledger writes per patient across processes that
// share one Redis.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client:     client,
		ttl:        10 * time.Second,
		retries:    50,
		retryDelay: 100 * time.Millisecond,
	}
}

// Lock blocks until the key is acquired, the retries run out or ctx is done.
// The returned func releases the lock.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	value := uuid.NewString()

	for i := 0; i < l.retries; i++ {
		ok, err := l.client.SetNX(ctx, lockKey, value, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(apperrors.ErrConflict, ctx.Err().Error())
			}
			return nil, apperrors.Unavailable(errors.Wrap(err, "failed to acquire lock"))
		}
		if ok {
			return func() {
				if err := l.release(lockKey, value); err != nil {
					log.Warn().Err(err).Str("key", lockKey).Msg("failed to release lock")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(apperrors.ErrConflict, ctx.Err().Error())
		case <-time.After(l.retryDelay):
		}
	}
	return nil, errors.Wrapf(apperrors.ErrConflict, "lock %s is busy", key)
}

func (l *RedisLocker) release(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := releaseScript.Run(ctx, l.client, []string{key}, value).Int64()
	if err != nil {
		return errors.Wrap(err, "failed to release lock")
	}
	if result == 0 {
		return errors.New("lock release failed: not the lock owner")
	}
	return nil
}

// MonitorRedisPool logs the connection pool statistics for monitoring
func MonitorRedisPool(client *redis.Client) {
	stats := client.PoolStats()
	log.Debug().
		Uint32("total", stats.TotalConns).
		Uint32("idle", stats.IdleConns).
		Uint32("stale", stats.StaleConns).
		Msg("redis pool stats")
}
