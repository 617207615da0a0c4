package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/pkg/common"
)

const profileCacheName = "profile"

// Entry 內容定址快取的一筆紀錄；建立後只會累加命中次數
type Entry struct {
	ID        string             `json:"id"`
	Key       string             `json:"key"`
	Profile   common.CareProfile `json:"profile"`
	HitCount  int64              `json:"hit_count"`
	CreatedAt time.Time          `json:"created_at"`
}

// RecordStore 快取紀錄的持久化儲存
type RecordStore interface {
	// GetEntry 依快取鍵讀取，找不到時回傳 common.ErrNotFound
	GetEntry(ctx context.Context, key string) (*Entry, error)
	// PutEntry 寫入紀錄並回傳儲存後的內容；鍵已存在時保留既有紀錄
	PutEntry(ctx context.Context, entry *Entry) (*Entry, error)
	// IncrementHitCount 命中次數加一
	IncrementHitCount(ctx context.Context, id string) error
}

// ProfileCache 照護檔案快取，包裝 RecordStore 並處理失敗語意
type ProfileCache struct {
	store   RecordStore
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewProfileCache 建立照護檔案快取；m 可為 nil
func NewProfileCache(store RecordStore, m *metrics.Metrics) *ProfileCache {
	return &ProfileCache{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

// Get 讀取快取。未命中時沒有副作用；讀取失敗視同未命中
func (c *ProfileCache) Get(ctx context.Context, key string) (*Entry, bool) {
	entry, err := c.store.GetEntry(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("快取讀取失敗，視為未命中",
				zap.String("鍵", key),
				zap.Error(err),
			)
		}
		common.LogCacheMiss(profileCacheName, key)
		c.metrics.RecordCacheLookup(profileCacheName, false)
		return nil, false
	}

	common.LogCacheHit(profileCacheName, key)
	c.metrics.RecordCacheLookup(profileCacheName, true)
	return entry, true
}

// Put 寫入新紀錄。失敗時回傳 *common.StorageError
func (c *ProfileCache) Put(ctx context.Context, key string, profile common.CareProfile) (*Entry, error) {
	now := c.now().UTC()
	entry := &Entry{
		ID:        common.NewEntryID(now),
		Key:       key,
		Profile:   profile,
		CreatedAt: now,
	}

	stored, err := c.store.PutEntry(ctx, entry)
	if err != nil {
		c.metrics.RecordCacheWriteError(profileCacheName, "put")
		return nil, common.NewStorageError("cache.put", err)
	}
	return stored, nil
}

// IncrementHit 命中次數加一
func (c *ProfileCache) IncrementHit(ctx context.Context, id string) error {
	if err := c.store.IncrementHitCount(ctx, id); err != nil {
		c.metrics.RecordCacheWriteError(profileCacheName, "increment_hit")
		return common.NewStorageError("cache.increment_hit", fmt.Errorf("entry %s: %w", id, err))
	}
	return nil
}

// Lookup 讀取並盡力累加命中次數；累加失敗只記錄日誌
func (c *ProfileCache) Lookup(ctx context.Context, key string) (*Entry, bool) {
	entry, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if err := c.IncrementHit(ctx, entry.ID); err != nil {
		common.LogWarn("命中次數更新失敗", zap.String("id", entry.ID), zap.Error(err))
	}
	return entry, true
}
