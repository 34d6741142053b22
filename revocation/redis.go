package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces denylist entries in a shared Redis.
	DefaultKeyPrefix = "bl_"
	// DefaultTimeout bounds every round trip to Redis.
	DefaultTimeout = 500 * time.Millisecond

	deniedValue = "1"
)

// RedisStore is a Store backed by Redis keys with a TTL.
type RedisStore struct {
	client  redis.Cmdable
	prefix  string
	timeout time.Duration
}

var _ Store = (*RedisStore)(nil)

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func WithTimeout(timeout time.Duration) RedisOption {
	return func(s *RedisStore) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func NewRedisStore(client redis.Cmdable, options ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		prefix:  DefaultKeyPrefix,
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Connect parses a redis:// URL, applies timeout to dialing and I/O and
// verifies the server answers a PING.
func Connect(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[revocation.Connect] parse url: %w", err)
	}
	if timeout > 0 {
		opts.DialTimeout = timeout
		opts.ReadTimeout = timeout
		opts.WriteTimeout = timeout
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[revocation.Connect] ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Deny(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("[RedisStore.Deny] empty credential id")
	}
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key(id), deniedValue, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisStore.Deny] %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) IsDenied(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("[RedisStore.IsDenied] %w: %w", ErrUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}
