// Package plant 定義植物類型、使用者植株與名稱正規化
package plant

import (
	"slices"
	"strings"
	"time"

	"garden-assistant/internal/pkg/common"
)

// TypeIdentity 標準植物類型的複合自然鍵（與品種名無關）
type TypeIdentity struct {
	TopLevel    string `json:"top_level"`
	MiddleLevel string `json:"middle_level"`
}

// NewTypeIdentity 去除前後空白並驗證 TopLevel 必填
func NewTypeIdentity(topLevel, middleLevel string) (TypeIdentity, error) {
	id := TypeIdentity{
		TopLevel:    common.CollapseSpaces(topLevel),
		MiddleLevel: common.CollapseSpaces(middleLevel),
	}
	if id.TopLevel == "" {
		return TypeIdentity{}, common.NewFieldValidationError("top_level", "is required")
	}
	return id, nil
}

// DisplayName 優先使用 MiddleLevel
func (t TypeIdentity) DisplayName() string {
	if strings.TrimSpace(t.MiddleLevel) != "" {
		return t.MiddleLevel
	}
	return t.TopLevel
}

// TypeRecord 植物類型紀錄，共享同一份照護檔案
type TypeRecord struct {
	ID              string              `json:"id"`
	TopLevel        string              `json:"top_level"`
	MiddleLevel     string              `json:"middle_level"`
	GrowthHabitTags []string            `json:"growth_habit_tags"`
	CareProfile     *common.CareProfile `json:"care_profile,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// Clone 深拷貝紀錄，含照護檔案與標籤
func (r *TypeRecord) Clone() *TypeRecord {
	cp := *r
	cp.GrowthHabitTags = slices.Clone(r.GrowthHabitTags)
	if r.CareProfile != nil {
		profile := r.CareProfile.Clone()
		cp.CareProfile = &profile
	}
	return &cp
}

// Identity 回傳紀錄的自然鍵
func (r *TypeRecord) Identity() TypeIdentity {
	return TypeIdentity{TopLevel: r.TopLevel, MiddleLevel: r.MiddleLevel}
}

// Instance 使用者的單一植株，可選擇連結到 TypeRecord
type Instance struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"owner_id"`
	TypeID       *string          `json:"type_id,omitempty"`
	CultivarName string           `json:"cultivar_name,omitempty"`
	Nickname     string           `json:"nickname,omitempty"`
	Location     string           `json:"location,omitempty"`
	PlantedIn    common.PlantedIn `json:"planted_in,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
