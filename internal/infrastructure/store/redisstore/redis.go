// Package redisstore 以 Redis hash 實作照護檔案快取紀錄
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/pkg/common"
)

var _ cache.RecordStore = (*Store)(nil)

const (
	fieldID        = "id"
	fieldKey       = "key"
	fieldProfile   = "profile"
	fieldHitCount  = "hit_count"
	fieldCreatedAt = "created_at"
)

// Options Redis 連線設定
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store Redis 快取紀錄儲存
type Store struct {
	client *redis.Client
	prefix string
}

// Connect 建立連線並 Ping
func Connect(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(client, opts.Prefix), nil
}

// New 以既有 client 建立 Store
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "garden"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) entryKey(key string) string {
	return s.prefix + ":profile:" + key
}

func (s *Store) idKey(id string) string {
	return s.prefix + ":profile-id:" + id
}

// GetEntry 依快取鍵讀取
func (s *Store) GetEntry(ctx context.Context, key string) (*cache.Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.entryKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrNotFound
	}
	return decodeEntry(fields)
}

// PutEntry 鍵不存在時以交易寫入紀錄與 id 索引；已存在時回傳既有紀錄
func (s *Store) PutEntry(ctx context.Context, entry *cache.Entry) (*cache.Entry, error) {
	profile, err := json.Marshal(entry.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	hashKey := s.entryKey(entry.Key)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, hashKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey,
				fieldID, entry.ID,
				fieldKey, entry.Key,
				fieldProfile, string(profile),
				fieldHitCount, entry.HitCount,
				fieldCreatedAt, entry.CreatedAt.UTC().Format(time.RFC3339Nano),
			)
			pipe.Set(ctx, s.idKey(entry.ID), entry.Key, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err = s.client.Watch(ctx, txf, hashKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to put cache entry: %w", err)
	}
	return s.GetEntry(ctx, entry.Key)
}

// IncrementHitCount 以 HINCRBY 累加命中次數
func (s *Store) IncrementHitCount(ctx context.Context, id string) error {
	key, err := s.client.Get(ctx, s.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve cache entry id: %w", err)
	}
	return s.client.HIncrBy(ctx, s.entryKey(key), fieldHitCount, 1).Err()
}

// Ping 檢查連線
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Store) Close() error {
	return s.client.Close()
}

func decodeEntry(fields map[string]string) (*cache.Entry, error) {
	entry := &cache.Entry{
		ID:  fields[fieldID],
		Key: fields[fieldKey],
	}
	if err := json.Unmarshal([]byte(fields[fieldProfile]), &entry.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}
	if v := fields[fieldHitCount]; v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid hit count %q: %w", v, err)
		}
		entry.HitCount = n
	}
	if v := fields[fieldCreatedAt]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", v, err)
		}
		entry.CreatedAt = t
	}
	return entry, nil
}
