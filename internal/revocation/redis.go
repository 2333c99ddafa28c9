package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/content-service/internal/domain"
)

const defaultRedisPrefix = "revoked:"

// RedisStore keeps revocations as keys that expire together with the token,
// so the blacklist never outgrows the set of live tokens.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps client. An empty prefix selects "revoked:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + HashToken(token)
}

func (s *RedisStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.SetNX(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoke token: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: check revocation: %v", domain.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}
