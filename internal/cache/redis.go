package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "krishicache:"
	namespacesKey = "krishicache:namespaces"
)

// RedisStore keeps cache entries in Redis, for deployments where several
// gateway instances share one cache. Entries expire after the configured
// TTL; the namespace registry is kept in a set.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func entryKey(namespace, url string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, namespace, url)
}

func (s *RedisStore) Get(ctx context.Context, namespace, url string) (*Entry, error) {
	data, err := s.rdb.Get(ctx, entryKey(namespace, url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace string, e *Entry) error {
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, entryKey(namespace, e.URL), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if err := s.rdb.SAdd(ctx, namespacesKey, namespace).Err(); err != nil {
		return fmt.Errorf("register namespace: %w", err)
	}
	return nil
}

func (s *RedisStore) Namespaces(ctx context.Context) ([]string, error) {
	out, err := s.rdb.SMembers(ctx, namespacesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	return out, nil
}

func (s *RedisStore) DeleteNamespace(ctx context.Context, namespace string) error {
	var cursor uint64
	pattern := keyPrefix + namespace + ":*"
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("scan namespace: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete namespace keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if err := s.rdb.SRem(ctx, namespacesKey, namespace).Err(); err != nil {
		return fmt.Errorf("unregister namespace: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
