package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"yamdb/internal/models"
)

const codeKeyPrefix = "auth:confirmation_code:"

// consumeScript deletes KEYS[1] only while it still holds ARGV[1].
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeStore keeps confirmation code hashes in Redis and lets the
// key TTL handle expiry.
type RedisCodeStore struct {
	client redis.Cmdable
}

// NewRedisCodeStore creates a new Redis-backed CodeStore.
func NewRedisCodeStore(client redis.Cmdable) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(user *models.User) string {
	return codeKeyPrefix + user.ID
}

// Save stores hash under the user's key. A zero ttl keeps it until deleted.
func (s *RedisCodeStore) Save(ctx context.Context, user *models.User, hash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKey(user), hash, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store confirmation code for %s: %w", user.Username, err)
	}
	return nil
}

// Get returns ErrNotFound when the key is absent or expired.
func (s *RedisCodeStore) Get(ctx context.Context, user *models.User) (string, error) {
	hash, err := s.client.Get(ctx, codeKey(user)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load confirmation code for %s: %w", user.Username, err)
	}
	return hash, nil
}

// Consume deletes the user's key if it still holds hash.
func (s *RedisCodeStore) Consume(ctx context.Context, user *models.User, hash string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{codeKey(user)}, hash).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to clear confirmation code for %s: %w", user.Username, err)
	}
	return n == 1, nil
}
