package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
)

// RedisStore keeps sessions in Redis so they survive restarts and can be
// shared by multiple processes. Values are JSON-encoded principals with a TTL;
// SET semantics give the same last-write-wins behavior as the memory store.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisStore) Get(ctx context.Context, token string) (entity.User, bool, error) {
	var u entity.User
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, sessionKey(token), &u)
	if err != nil {
		return entity.User{}, false, err
	}
	return u, ok, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, u entity.User) error {
	return helpers.RedisSetJSON(ctx, s.rdb, sessionKey(token), u, s.ttl)
}

func (s *RedisStore) Invalidate(ctx context.Context, token string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionKey(token))
}

var _ Store = (*RedisStore)(nil)
