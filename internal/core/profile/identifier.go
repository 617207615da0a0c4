package profile

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/ai/provider"
	"garden-assistant/internal/pkg/common"
)

const maxQueryLength = 500

// Identification 辨識結果與是否來自快取
type Identification struct {
	common.Identification
	Cached bool `json:"cached"`
}

// Identifier 自由文字植物辨識，結果存放在 IdentificationCache
type Identifier struct {
	cache     *cache.IdentificationCache
	generator provider.ContentGenerator
	queue     Submitter
}

// NewIdentifier 創建辨識服務；queue 可為 nil
func NewIdentifier(c *cache.IdentificationCache, generator provider.ContentGenerator, queue Submitter) *Identifier {
	return &Identifier{cache: c, generator: generator, queue: queue}
}

// Identify 辨識植物描述。失敗結果不會寫入快取
func (i *Identifier) Identify(ctx context.Context, query string) (*Identification, error) {
	query = common.CollapseSpaces(query)
	if query == "" {
		return nil, common.NewFieldValidationError("query", "is required")
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		return nil, common.NewFieldValidationError("query", "is too long")
	}

	if cached, ok := i.cache.Get(query); ok {
		common.LogCacheHit("identification", cache.IdentificationKey(query))
		return &Identification{Identification: cached, Cached: true}, nil
	}

	result := make(chan *common.Identification, 1)
	job := func(ctx context.Context) error {
		ident, err := i.generator.IdentifyPlant(ctx, query)
		if err != nil {
			return err
		}
		result <- ident
		return nil
	}

	var err error
	if i.queue != nil {
		err = i.queue.Submit(ctx, job)
	} else {
		err = job(ctx)
	}
	if err != nil {
		if !common.IsGenerationError(err) {
			err = common.NewGenerationError("identify", err)
		}
		common.LogWarn("植物辨識失敗", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	ident := <-result
	if ident == nil {
		err := common.NewGenerationError("identify", errors.New("generator returned no identification"))
		common.LogWarn("植物辨識失敗", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	i.cache.Set(query, *ident)
	return &Identification{Identification: *ident}, nil
}
