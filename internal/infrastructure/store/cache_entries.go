package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/pkg/common"
)

// GetEntry 依快取鍵讀取
func (s *Store) GetEntry(ctx context.Context, key string) (*cache.Entry, error) {
	var m CacheEntryModel
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toEntry(), nil
}

// PutEntry 鍵不存在時寫入；已存在時保留既有紀錄並回傳
func (s *Store) PutEntry(ctx context.Context, entry *cache.Entry) (*cache.Entry, error) {
	m := CacheEntryModel{
		ID:        entry.ID,
		Key:       entry.Key,
		Profile:   entry.Profile,
		HitCount:  entry.HitCount,
		CreatedAt: entry.CreatedAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoNothing: true,
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, entry.Key)
}

// IncrementHitCount 以單一 UPDATE 累加命中次數
func (s *Store) IncrementHitCount(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&CacheEntryModel{}).
		Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
