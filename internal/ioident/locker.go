package ioident

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "phingest:seq:"
	retryDelay   = 100 * time.Millisecond
	pingTimeout  = 2 * time.Second
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LockKey is the sequence lock key of one prefix, kind and date.
func LockKey(prefix, letter string, date time.Time) string {
	return keyPrefix + prefix + "/" + ident.DayPattern(letter, date)
}

// RedisLocker is a lifecycle.SequenceLocker backed by Redis. A lock is
// a key set with NX and a TTL, so a crashed holder cannot block other
// processes longer than the TTL.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

var _ lifecycle.SequenceLocker = (*RedisLocker)(nil)

// NewRedisLocker connects to Redis at redisURL.
func NewRedisLocker(
	ctx context.Context,
	redisURL string,
	ttl time.Duration,
) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, SequenceLockError(redisURL, err)
	}
	opts.PoolSize = 2
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, SequenceLockError(opts.Addr, err)
	}

	slog.Debug("Sequence lock connected", "addr", opts.Addr)
	return &RedisLocker{client: client, ttl: ttl}, nil
}

// Lock polls until the key is free or ctx is done.
func (l *RedisLocker) Lock(
	ctx context.Context,
	key string,
) (func(context.Context) error, error) {
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, SequenceLockError(key, err)
		}
		if ok {
			release := func(ctx context.Context) error {
				err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
				if err != nil {
					return SequenceLockError(key, err)
				}
				return nil
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, SequenceLockError(key, ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

// Close disconnects from Redis.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// NoopLocker is used when ingest runs as the only writer.
type NoopLocker struct{}

var _ lifecycle.SequenceLocker = NoopLocker{}

func (NoopLocker) Lock(
	context.Context, string,
) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
