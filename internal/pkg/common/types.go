package common

import (
	"fmt"
	"slices"
	"strings"
)

// PlantedIn 種植方式
type PlantedIn string

const (
	PlantedInGround      PlantedIn = "ground"
	PlantedInPot         PlantedIn = "pot"
	PlantedInRaisedBed   PlantedIn = "raised_bed"
	PlantedInUnspecified PlantedIn = ""
)

// ParsePlantedIn 解析種植方式，空字串與 "unspecified" 視為未指定
func ParsePlantedIn(raw string) (PlantedIn, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, " ", "_")
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "", "unspecified":
		return PlantedInUnspecified, nil
	case "ground":
		return PlantedInGround, nil
	case "pot", "container":
		return PlantedInPot, nil
	case "raised_bed", "raisedbed":
		return PlantedInRaisedBed, nil
	}
	return "", NewFieldValidationError("planted_in", fmt.Sprintf("unsupported value %q", raw))
}

// GenerationContext 生成照護檔案時的上下文
type GenerationContext struct {
	PlantedIn    PlantedIn `json:"planted_in,omitempty"`
	ClimateZone  int       `json:"climate_zone,omitempty"` // 0 表示未提供
	Location     string    `json:"location,omitempty"`
	TopLevelHint string    `json:"top_level_hint,omitempty"`
}

// CareTask 照護行事曆中的一項工作
type CareTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"` // pruning, feeding, watering, planting ...
	StartMonth  int    `json:"start_month"`
	EndMonth    int    `json:"end_month"`
}

// CareProfile AI 生成的照護檔案（季節性工作行事曆）
type CareProfile struct {
	PlantName       string     `json:"plant_name"`
	Summary         string     `json:"summary"`
	Sunlight        string     `json:"sunlight,omitempty"`
	Watering        string     `json:"watering,omitempty"`
	SoilPreference  string     `json:"soil_preference,omitempty"`
	GrowthHabitTags []string   `json:"growth_habit_tags,omitempty"`
	Tasks           []CareTask `json:"tasks"`
}

// Clone 深拷貝，回傳值不與 p 共用切片
func (p CareProfile) Clone() CareProfile {
	p.GrowthHabitTags = slices.Clone(p.GrowthHabitTags)
	p.Tasks = slices.Clone(p.Tasks)
	return p
}

// Validate 檢查生成結果的結構是否可用
func (p *CareProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("care profile is nil")
	}
	if len(p.Tasks) == 0 {
		return fmt.Errorf("care profile has no tasks")
	}
	for i, task := range p.Tasks {
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("task %d has no title", i)
		}
		if task.StartMonth < 1 || task.StartMonth > 12 || task.EndMonth < 1 || task.EndMonth > 12 {
			return fmt.Errorf("task %q has month range %d-%d outside 1..12", task.Title, task.StartMonth, task.EndMonth)
		}
	}
	return nil
}

// Identification 自由文字植物辨識結果
type Identification struct {
	Query       string  `json:"query"`
	TopLevel    string  `json:"top_level"`
	MiddleLevel string  `json:"middle_level"`
	Confidence  float64 `json:"confidence"`
	Notes       string  `json:"notes,omitempty"`
}
