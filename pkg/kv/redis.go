package kv

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 200

type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisStore namespace 作为所有键的前缀，避免与其他服务共用实例时冲突
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, s.key(key)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByPrefix 使用 SCAN 遍历，不使用 KEYS 以免阻塞实例
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, s.key(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// 扫描与读取之间被删除
			continue
		}
		out[keys[i][len(s.namespace):]] = []byte(str)
	}
	return out, nil
}
