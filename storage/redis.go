package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = constants.MetricsNamespace + ":blob:"

// RedisStore Redis 문자열 키를 경로 기반 저장소로 사용합니다
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore Redis에 연결하고 Ping으로 확인합니다
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	utils.Info("Connected to redis at %s (db %d)", addr, db)
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient 이미 생성된 클라이언트를 사용합니다
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(path string) string {
	return redisKeyPrefix + path
}

func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", path, err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, path string, data []byte) error {
	if err := s.client.Set(ctx, redisKey(path), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put %s to redis: %w", path, err)
	}
	return nil
}

// Update WATCH/MULTI로 낙관적 잠금을 수행합니다. 키가 중간에 바뀌면 처음부터 다시 시도합니다
func (s *RedisStore) Update(ctx context.Context, path string, fn interfaces.UpdateFunc) ([]byte, error) {
	key := redisKey(path)
	var result []byte

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		exists := true
		if errors.Is(err, redis.Nil) {
			current, exists = nil, false
		} else if err != nil {
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for attempt := 0; attempt < constants.MaxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			utils.Debug("Redis update conflict on %s (attempt %d)", path, attempt+1)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrConflict, path)
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, redisKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", path, err)
	}
	return nil
}

// List SCAN으로 접두사가 일치하는 키를 순회합니다
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	iter := s.client.Scan(ctx, 0, redisKey(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		paths = append(paths, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
