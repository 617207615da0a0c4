package store

import (
	"time"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

// CacheEntryModel 照護檔案快取表
type CacheEntryModel struct {
	ID        string             `gorm:"primaryKey;size:26"`
	Key       string             `gorm:"column:cache_key;size:64;not null;uniqueIndex"`
	Profile   common.CareProfile `gorm:"type:text;not null;serializer:json"`
	HitCount  int64              `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// TableName 指定表名
func (CacheEntryModel) TableName() string { return "care_profile_cache" }

func (m *CacheEntryModel) toEntry() *cache.Entry {
	return &cache.Entry{
		ID:        m.ID,
		Key:       m.Key,
		Profile:   m.Profile,
		HitCount:  m.HitCount,
		CreatedAt: m.CreatedAt,
	}
}

// PlantTypeModel 植物類型表，(top_level, middle_level) 唯一
type PlantTypeModel struct {
	ID              string              `gorm:"primaryKey;size:36"`
	TopLevel        string              `gorm:"size:191;not null;uniqueIndex:idx_plant_type_identity,priority:1"`
	MiddleLevel     string              `gorm:"size:191;not null;default:'';uniqueIndex:idx_plant_type_identity,priority:2"`
	GrowthHabitTags []string            `gorm:"type:text;serializer:json"`
	CareProfile     *common.CareProfile `gorm:"type:text;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定表名
func (PlantTypeModel) TableName() string { return "plant_types" }

func (m *PlantTypeModel) toRecord() *plant.TypeRecord {
	return &plant.TypeRecord{
		ID:              m.ID,
		TopLevel:        m.TopLevel,
		MiddleLevel:     m.MiddleLevel,
		GrowthHabitTags: m.GrowthHabitTags,
		CareProfile:     m.CareProfile,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// PlantInstanceModel 使用者植株表
type PlantInstanceModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	OwnerID      string  `gorm:"size:191;not null;index:idx_instance_owner_type,priority:1"`
	TypeID       *string `gorm:"size:36;index:idx_instance_owner_type,priority:2"`
	CultivarName string  `gorm:"size:255"`
	Nickname     string  `gorm:"size:255"`
	Location     string  `gorm:"size:255"`
	PlantedIn    string  `gorm:"size:16"`
	CreatedAt    time.Time
}

// TableName 指定表名
func (PlantInstanceModel) TableName() string { return "plant_instances" }

func instanceModel(inst *plant.Instance) *PlantInstanceModel {
	return &PlantInstanceModel{
		ID:           inst.ID,
		OwnerID:      inst.OwnerID,
		TypeID:       inst.TypeID,
		CultivarName: inst.CultivarName,
		Nickname:     inst.Nickname,
		Location:     inst.Location,
		PlantedIn:    string(inst.PlantedIn),
		CreatedAt:    inst.CreatedAt,
	}
}

func (m *PlantInstanceModel) toInstance() plant.Instance {
	return plant.Instance{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		TypeID:       m.TypeID,
		CultivarName: m.CultivarName,
		Nickname:     m.Nickname,
		Location:     m.Location,
		PlantedIn:    common.PlantedIn(m.PlantedIn),
		CreatedAt:    m.CreatedAt,
	}
}
