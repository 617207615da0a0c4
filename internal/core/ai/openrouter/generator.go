package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"garden-assistant/internal/core/ai/provider"
	"garden-assistant/internal/core/climate"
	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/pkg/common"
)

const (
	opCareProfile = "care_profile"
	opIdentify    = "identify"
)

var _ provider.ContentGenerator = (*Generator)(nil)

const careProfileSystemPrompt = `You are a horticulture assistant for UK home gardeners.
Reply with a single JSON object and nothing else, using exactly these keys:
{"plant_name": string, "summary": string, "sunlight": string, "watering": string,
 "soil_preference": string, "growth_habit_tags": [string],
 "tasks": [{"title": string, "description": string, "category": string, "start_month": 1-12, "end_month": 1-12}]}
A task whose start_month is greater than its end_month wraps over the new year.`

const identifySystemPrompt = `You classify free-text plant descriptions for a gardening app.
Reply with a single JSON object and nothing else:
{"top_level": string, "middle_level": string, "confidence": number between 0 and 1, "notes": string}
top_level is the broad plant type (e.g. "Rose", "Tomato"); middle_level is the care-relevant class
(e.g. "Climbing Rose", "Cherry Tomato"). Never put a cultivar name in either field.`

// Generator 以對話補全實作 ContentGenerator
type Generator struct {
	client  provider.ChatCompleter
	metrics *metrics.Metrics
}

// NewGenerator 建立生成器；m 可為 nil
func NewGenerator(client provider.ChatCompleter, m *metrics.Metrics) *Generator {
	return &Generator{client: client, metrics: m}
}

// GenerateCareProfile 產生照護檔案；呼叫或解析失敗時回傳 *common.GenerationError
func (g *Generator) GenerateCareProfile(ctx context.Context, name string, gctx common.GenerationContext, topLevelHint string) (*common.CareProfile, error) {
	start := time.Now()
	profile, err := g.generateCareProfile(ctx, name, gctx, topLevelHint)
	g.record(opCareProfile, start, err)
	if err != nil {
		return nil, common.NewGenerationError(opCareProfile, err)
	}
	return profile, nil
}

func (g *Generator) generateCareProfile(ctx context.Context, name string, gctx common.GenerationContext, topLevelHint string) (*common.CareProfile, error) {
	resp, err := g.client.Complete(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "system", Content: careProfileSystemPrompt},
			{Role: "user", Content: buildCareProfilePrompt(name, gctx, topLevelHint)},
		},
	})
	if err != nil {
		return nil, err
	}

	raw, err := common.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, err
	}

	var profile common.CareProfile
	if err := parseLenient(raw, &profile); err != nil {
		return nil, fmt.Errorf("malformed care profile: %w", err)
	}
	if strings.TrimSpace(profile.PlantName) == "" {
		profile.PlantName = name
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid care profile: %w", err)
	}
	return &profile, nil
}

// IdentifyPlant 辨識自由文字描述；呼叫或解析失敗時回傳 *common.GenerationError
func (g *Generator) IdentifyPlant(ctx context.Context, query string) (*common.Identification, error) {
	start := time.Now()
	ident, err := g.identifyPlant(ctx, query)
	g.record(opIdentify, start, err)
	if err != nil {
		return nil, common.NewGenerationError(opIdentify, err)
	}
	return ident, nil
}

func (g *Generator) identifyPlant(ctx context.Context, query string) (*common.Identification, error) {
	resp, err := g.client.Complete(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "system", Content: identifySystemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return nil, err
	}

	raw, err := common.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, err
	}

	var ident common.Identification
	if err := parseLenient(raw, &ident); err != nil {
		return nil, fmt.Errorf("malformed identification: %w", err)
	}
	ident.TopLevel = common.CollapseSpaces(ident.TopLevel)
	ident.MiddleLevel = common.CollapseSpaces(ident.MiddleLevel)
	if ident.TopLevel == "" {
		return nil, fmt.Errorf("identification has no top_level")
	}
	if ident.Confidence < 0 || ident.Confidence > 1 {
		ident.Confidence = 0
	}
	ident.Query = query
	return &ident, nil
}

func (g *Generator) record(op string, start time.Time, err error) {
	d := time.Since(start)
	common.LogAICall(op, d, err)
	g.metrics.RecordGeneration(op, d, err)
}

// parseLenient 先以標準 JSON 解析，失敗時補上未加引號的鍵再試一次
func parseLenient(raw string, v interface{}) error {
	err := common.ParseJSON(raw, v)
	if err == nil {
		return nil
	}
	if fixed := common.QuoteJSONKeys(raw); fixed != raw {
		if common.ParseJSON(fixed, v) == nil {
			return nil
		}
	}
	return err
}

func buildCareProfilePrompt(name string, gctx common.GenerationContext, topLevelHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant: %s\n", name)
	if hint := strings.TrimSpace(topLevelHint); hint != "" && !strings.EqualFold(hint, name) {
		fmt.Fprintf(&b, "Plant type: %s\n", hint)
	}
	if gctx.PlantedIn != common.PlantedInUnspecified {
		fmt.Fprintf(&b, "Grown in: %s\n", strings.ReplaceAll(string(gctx.PlantedIn), "_", " "))
	}
	if gctx.ClimateZone != 0 {
		info := climate.LookupInfo(climate.Zone(gctx.ClimateZone))
		fmt.Fprintf(&b, "Hardiness: %s (%s, winter minimum %.1f to %.1f C)\n",
			climate.Zone(gctx.ClimateZone), info.Description, info.MinTempC, info.MaxTempC)
	}
	b.WriteString("Write a month-by-month care calendar for this plant.")
	return b.String()
}
