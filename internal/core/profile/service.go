// Package profile 照護檔案的取得或生成流程
package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/ai/provider"
	"garden-assistant/internal/core/ai/queue"
	"garden-assistant/internal/core/climate"
	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/infrastructure/telemetry"
	"garden-assistant/internal/pkg/common"
)

const (
	opCareProfile = "care_profile"
	opTypeProfile = "type_profile"
)

// Submitter 生成工作的排程器，queue.Manager 實作此介面
type Submitter interface {
	Submit(ctx context.Context, job queue.Job) error
}

// Options 流程設定
type Options struct {
	SchemaVersion     int
	SingleFlight      bool
	GenerationTimeout time.Duration
}

// Deps 流程依賴；Queue 與 Reporter 可為 nil
type Deps struct {
	Cache     *cache.ProfileCache
	Types     identity.Store
	Generator provider.ContentGenerator
	Queue     Submitter
	Reporter  telemetry.Reporter
}

// Result 照護檔案與其快取資訊
type Result struct {
	Profile        common.CareProfile `json:"profile"`
	NormalizedName string             `json:"normalized_name"`
	CacheKey       string             `json:"cache_key"`
	ClimateZone    int                `json:"climate_zone,omitempty"`
	EntryID        string             `json:"entry_id,omitempty"`
	CacheHit       bool               `json:"cache_hit"`
}

// TypeResult 類型共享照護檔案
type TypeResult struct {
	Profile  common.CareProfile `json:"profile"`
	RecordID string             `json:"record_id,omitempty"`
	Existing bool               `json:"existing"`
}

// Service 照護檔案服務
type Service struct {
	cache     *cache.ProfileCache
	types     identity.Store
	generator provider.ContentGenerator
	queue     Submitter
	reporter  telemetry.Reporter
	opts      Options
	group     singleflight.Group
}

// NewService 創建照護檔案服務
func NewService(deps Deps, opts Options) *Service {
	if deps.Reporter == nil {
		deps.Reporter = telemetry.NopReporter{}
	}
	if opts.SchemaVersion <= 0 {
		opts.SchemaVersion = 1
	}
	return &Service{
		cache:     deps.Cache,
		types:     deps.Types,
		generator: deps.Generator,
		queue:     deps.Queue,
		reporter:  deps.Reporter,
		opts:      opts,
	}
}

// SchemaVersion 目前的快取結構版本
func (s *Service) SchemaVersion() int {
	return s.opts.SchemaVersion
}

// GetOrGenerateProfile 依名稱與上下文取得照護檔案；快取命中時不呼叫生成器。
// 寫入快取失敗只記錄與回報，仍回傳生成結果
func (s *Service) GetOrGenerateProfile(ctx context.Context, rawName string, gctx common.GenerationContext) (*Result, error) {
	if common.CollapseSpaces(rawName) == "" {
		return nil, common.NewFieldValidationError("name", "is required")
	}
	gctx, err := normalizeContext(gctx)
	if err != nil {
		return nil, err
	}

	name := plant.Normalize(rawName)
	gctx.ClimateZone = resolveZone(gctx)
	key := cache.KeyContext{
		Name:          name,
		PlantedIn:     gctx.PlantedIn,
		Zone:          gctx.ClimateZone,
		SchemaVersion: s.opts.SchemaVersion,
	}.Key()

	if entry, ok := s.cache.Lookup(ctx, key); ok {
		return &Result{
			Profile:        entry.Profile,
			NormalizedName: name,
			CacheKey:       key,
			ClimateZone:    gctx.ClimateZone,
			EntryID:        entry.ID,
			CacheHit:       true,
		}, nil
	}

	fill := func() (interface{}, error) {
		profile, err := s.generate(ctx, opCareProfile, name, gctx, gctx.TopLevelHint)
		if err != nil {
			return nil, err
		}
		res := &Result{
			Profile:        *profile,
			NormalizedName: name,
			CacheKey:       key,
			ClimateZone:    gctx.ClimateZone,
		}
		entry, err := s.cache.Put(ctx, key, *profile)
		if err != nil {
			s.reportStorage(err, "profile_cache", zap.String("鍵", key))
			return res, nil
		}
		res.EntryID = entry.ID
		return res, nil
	}

	var v interface{}
	if s.opts.SingleFlight {
		v, err, _ = s.group.Do(key, fill)
	} else {
		v, err = fill()
	}
	if err != nil {
		return nil, err
	}
	res := *v.(*Result)
	return &res, nil
}

// GetOrGenerateTypeProfile 取得類型的共享照護檔案；已存在時不呼叫生成器，
// 否則生成後以 (TopLevel, MiddleLevel) 為衝突鍵寫入
func (s *Service) GetOrGenerateTypeProfile(ctx context.Context, topLevel, middleLevel string, gctx common.GenerationContext) (*TypeResult, error) {
	id, err := plant.NewTypeIdentity(topLevel, middleLevel)
	if err != nil {
		return nil, err
	}
	gctx, err = normalizeContext(gctx)
	if err != nil {
		return nil, err
	}
	gctx.ClimateZone = resolveZone(gctx)

	record, err := s.types.FindType(ctx, id)
	switch {
	case err == nil && record.CareProfile != nil:
		return &TypeResult{Profile: *record.CareProfile, RecordID: record.ID, Existing: true}, nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		common.LogWarn("類型讀取失敗，改為重新生成",
			zap.String("類型", id.DisplayName()),
			zap.Error(err),
		)
	}

	profile, err := s.generate(ctx, opTypeProfile, id.DisplayName(), gctx, id.TopLevel)
	if err != nil {
		return nil, err
	}

	res := &TypeResult{Profile: *profile}
	stored, err := s.types.UpsertTypeProfile(ctx, id, *profile)
	if err != nil {
		s.reportStorage(common.NewStorageError("type.upsert_profile", err), "plant_types",
			zap.String("類型", id.DisplayName()))
		return res, nil
	}
	res.RecordID = stored.ID
	return res, nil
}

// generate 經由隊列呼叫生成器，所有失敗都以 *common.GenerationError 回傳
func (s *Service) generate(ctx context.Context, op, name string, gctx common.GenerationContext, hint string) (*common.CareProfile, error) {
	if s.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
		defer cancel()
	}

	result := make(chan *common.CareProfile, 1)
	job := func(ctx context.Context) error {
		profile, err := s.generator.GenerateCareProfile(ctx, name, gctx, hint)
		if err != nil {
			return err
		}
		result <- profile
		return nil
	}

	var err error
	if s.queue != nil {
		err = s.queue.Submit(ctx, job)
	} else {
		err = job(ctx)
	}
	if err != nil {
		if !common.IsGenerationError(err) {
			err = common.NewGenerationError(op, err)
		}
		common.LogError("照護檔案生成失敗",
			zap.String("名稱", name),
			zap.String("operation", op),
			zap.Error(err),
		)
		return nil, err
	}

	profile := <-result
	if profile == nil {
		return nil, common.NewGenerationError(op, errors.New("generator returned no profile"))
	}
	return profile, nil
}

func (s *Service) reportStorage(err error, component string, fields ...zap.Field) {
	common.LogError("儲存寫入失敗，已回傳生成結果", append(fields, zap.Error(err))...)
	s.reporter.CaptureError(err, component)
}

// normalizeContext 驗證並正規化上下文，不產生任何副作用
func normalizeContext(gctx common.GenerationContext) (common.GenerationContext, error) {
	plantedIn, err := common.ParsePlantedIn(string(gctx.PlantedIn))
	if err != nil {
		return gctx, err
	}
	gctx.PlantedIn = plantedIn

	if gctx.ClimateZone != 0 && !climate.Zone(gctx.ClimateZone).Valid() {
		return gctx, common.NewFieldValidationError("climate_zone", "must be between 7 and 10")
	}
	gctx.Location = common.CollapseSpaces(gctx.Location)
	gctx.TopLevelHint = common.CollapseSpaces(gctx.TopLevelHint)
	return gctx, nil
}

// resolveZone 明確指定的耐寒區優先，其次由地點推得，皆無時為 0
func resolveZone(gctx common.GenerationContext) int {
	if gctx.ClimateZone != 0 {
		return gctx.ClimateZone
	}
	if gctx.Location != "" {
		return int(climate.ResolveZone(gctx.Location))
	}
	return 0
}
