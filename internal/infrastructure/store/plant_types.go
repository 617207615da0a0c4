package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

var identityColumns = []clause.Column{{Name: "top_level"}, {Name: "middle_level"}}

// FindType 以 (top_level, middle_level) 完全比對
func (s *Store) FindType(ctx context.Context, id plant.TypeIdentity) (*plant.TypeRecord, error) {
	var m PlantTypeModel
	err := s.db.WithContext(ctx).
		Where("top_level = ? AND middle_level = ?", id.TopLevel, id.MiddleLevel).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toRecord(), nil
}

// InsertOrFetchType INSERT ... ON CONFLICT DO NOTHING 後讀回，唯一性交給資料庫
func (s *Store) InsertOrFetchType(ctx context.Context, id plant.TypeIdentity, tags []string) (*plant.TypeRecord, bool, error) {
	now := time.Now().UTC()
	m := PlantTypeModel{
		ID:              common.GenerateUUID(),
		TopLevel:        id.TopLevel,
		MiddleLevel:     id.MiddleLevel,
		GrowthHabitTags: tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: identityColumns, DoNothing: true}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}

	rec, err := s.FindType(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return rec, res.RowsAffected == 1, nil
}

// UpsertTypeProfile 以身分為衝突鍵寫入照護檔案；生長習性標籤只在有值時覆寫
func (s *Store) UpsertTypeProfile(ctx context.Context, id plant.TypeIdentity, profile common.CareProfile) (*plant.TypeRecord, error) {
	now := time.Now().UTC()
	p := profile
	m := PlantTypeModel{
		ID:              common.GenerateUUID(),
		TopLevel:        id.TopLevel,
		MiddleLevel:     id.MiddleLevel,
		GrowthHabitTags: profile.GrowthHabitTags,
		CareProfile:     &p,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	columns := []string{"care_profile", "updated_at"}
	if len(profile.GrowthHabitTags) > 0 {
		columns = append(columns, "growth_habit_tags")
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   identityColumns,
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	return s.FindType(ctx, id)
}
