// Package redisstore implements kvstore.Store on Redis. Documents are plain
// string values under "<kind>:<id>" keys; prefix scans use SCAN MATCH.
// SetVersioned runs as a Lua script so the version check and the write are a
// single atomic step on the server — the store's only concurrency guarantee,
// everything above it is read-modify-write with bounded retry.
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"stoktakip/internal/kvstore"
)

// setVersionedScript compares the stored document's "version" field against
// ARGV[2] and writes ARGV[1] only on match. A missing key matches version 0.
var setVersionedScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  if ARGV[2] == '0' then
    redis.call('SET', KEYS[1], ARGV[1])
    return 1
  end
  return 0
end
local ok, doc = pcall(cjson.decode, current)
if not ok then
  return redis.error_reply('stored value is not valid JSON')
end
local ver = doc['version'] or 0
if tostring(ver) == ARGV[2] then
  redis.call('SET', KEYS[1], ARGV[1])
  return 1
end
return 0
`)

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kvstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) SetVersioned(ctx context.Context, key string, value []byte, expected int64) error {
	res, err := setVersionedScript.Run(ctx, s.rdb, []string{key}, value, expected).Int()
	if err != nil {
		return err
	}
	if res == 0 {
		return kvstore.ErrVersionConflict
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *Store) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		// A key deleted between SCAN and MGET comes back nil — skip it.
		if str, ok := v.(string); ok {
			out = append(out, []byte(str))
		}
	}
	return out, nil
}

var _ kvstore.Store = (*Store)(nil)
