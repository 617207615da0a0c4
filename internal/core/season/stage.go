// Package season 依植物類別與月份推估生長階段，並提供例行工作的月份區間規則
package season

import (
	"fmt"
	"strings"
	"time"
)

// Stage 生長階段
type Stage string

const (
	StageDormant   Stage = "dormant"
	StageFlowering Stage = "flowering"
	StageFruiting  Stage = "fruiting"
	StageMature    Stage = "mature"
	StageSeedling  Stage = "seedling"
	StageSeed      Stage = "seed"
	StageJuvenile  Stage = "juvenile"
)

var stageLabels = map[Stage]string{
	StageDormant:   "Dormant",
	StageFlowering: "Flowering",
	StageFruiting:  "Fruiting",
	StageMature:    "Actively growing",
	StageSeedling:  "Seedling / young growth",
	StageSeed:      "Seed",
	StageJuvenile:  "Leafing up",
}

// Label 顯示用名稱
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// StageResult 推估結果
type StageResult struct {
	Stage       Stage    `json:"stage"`
	Label       string   `json:"label"`
	Explanation string   `json:"explanation"`
	Category    Category `json:"category"`
	Month       int      `json:"month"`
}

// Clock 取得目前時間，測試時可替換
type Clock func() time.Time

// Inferer 生長階段推估器，month 缺省時用 Clock 取當月
type Inferer struct {
	now Clock
}

// NewInferer 建立推估器，clock 為 nil 時使用 time.Now
func NewInferer(clock Clock) *Inferer {
	if clock == nil {
		clock = time.Now
	}
	return &Inferer{now: clock}
}

var defaultInferer = NewInferer(nil)

// InferStage 使用系統時鐘的推估；month 不在 1..12 時以當月計算
func InferStage(topLevel, middleLevel string, month int) StageResult {
	return defaultInferer.InferStage(topLevel, middleLevel, month)
}

// InferStage 推估生長階段。優先順序：休眠、結果、開花、類別預設的生長階段
func (i *Inferer) InferStage(topLevel, middleLevel string, month int) StageResult {
	if month < 1 || month > 12 {
		month = int(i.now().Month())
	}

	category := ResolveCategory(topLevel, middleLevel)
	p := PatternFor(category)

	stage := p.StageAt(month)

	return StageResult{
		Stage:       stage,
		Label:       stage.Label(),
		Explanation: explain(stage, category, month, displayName(topLevel, middleLevel)),
		Category:    category,
		Month:       month,
	}
}

// StageAt 依優先順序判定該月份的階段
func (p Pattern) StageAt(month int) Stage {
	switch {
	case p.Dormant.Has(month):
		return StageDormant
	case p.Fruiting.Has(month):
		return StageFruiting
	case p.Flowering.Has(month):
		return StageFlowering
	}
	return p.Active
}

// ResolveCategory 類別判定：中層覆寫關鍵字、類別名稱子字串、預設多年生
func ResolveCategory(topLevel, middleLevel string) Category {
	middle := strings.ToLower(middleLevel)
	top := strings.ToLower(topLevel)

	if middle != "" {
		for _, r := range overrideRules {
			if strings.Contains(middle, r.keyword) {
				return r.category
			}
		}
	}

	for _, c := range categoryOrder {
		name := string(c)
		if strings.Contains(top, name) || strings.Contains(middle, name) {
			return c
		}
	}
	return DefaultCategory
}

func displayName(topLevel, middleLevel string) string {
	if m := strings.TrimSpace(middleLevel); m != "" {
		return m
	}
	if t := strings.TrimSpace(topLevel); t != "" {
		return t
	}
	return "this plant"
}

func explain(stage Stage, category Category, month int, name string) string {
	monthName := time.Month(month).String()
	switch stage {
	case StageDormant:
		return fmt.Sprintf("In %s, %s (%s) is usually dormant.", monthName, name, category)
	case StageFruiting:
		return fmt.Sprintf("In %s, %s (%s) is usually fruiting or setting seed.", monthName, name, category)
	case StageFlowering:
		return fmt.Sprintf("In %s, %s (%s) is usually in flower.", monthName, name, category)
	default:
		return fmt.Sprintf("In %s, %s (%s) is usually in its %s stage.", monthName, name, category, strings.ToLower(stage.Label()))
	}
}
