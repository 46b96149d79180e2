package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/storyreel/reelgraph/pkg/canvas"
)

// redisKeyPrefix namespaces canvas keys within a shared Redis instance.
const redisKeyPrefix = "reelgraph:canvas:"

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
}

// RedisStore keeps canvases as JSON values in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (canvas.Document, error) {
	if id == "" {
		return canvas.Document{}, ErrInvalidID
	}
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return canvas.Document{}, ErrNotFound
	}
	if err != nil {
		return canvas.Document{}, fmt.Errorf("redis get: %w", err)
	}
	return canvas.Unmarshal(data)
}

func (s *RedisStore) Put(ctx context.Context, doc canvas.Document) error {
	if doc.ID == "" {
		return ErrInvalidID
	}
	data, err := canvas.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal canvas: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(doc.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue // deleted between scan and get
		}
		doc, err := canvas.Unmarshal(data)
		if err != nil {
			continue
		}
		if doc.ID == "" {
			doc.ID = strings.TrimPrefix(key, redisKeyPrefix)
		}
		infos = append(infos, infoOf(doc))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
