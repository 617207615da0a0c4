// Package telemetry 將儲存與生成失敗回報到 Sentry
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"garden-assistant/internal/pkg/common"
)

// Reporter 錯誤回報
type Reporter interface {
	CaptureError(err error, component string)
	Flush(timeout time.Duration) bool
}

// Options Sentry 設定
type Options struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
	Transport   sentry.Transport // 測試用
}

// SentryReporter 持有自己的 Hub，不使用全域 Hub
type SentryReporter struct {
	hub *sentry.Hub
}

// New 依設定建立回報器；DSN 與 Transport 皆為空時回傳 NopReporter
func New(opts Options) (Reporter, error) {
	if opts.DSN == "" && opts.Transport == nil {
		return NopReporter{}, nil
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 1.0
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		SampleRate:       opts.SampleRate,
		AttachStacktrace: true,
		Transport:        opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry client: %w", err)
	}

	common.LogInfo("Sentry 回報已啟用", zap.String("environment", opts.Environment))
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// CaptureError 回報錯誤，並以錯誤種類標記
func (r *SentryReporter) CaptureError(err error, component string) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		scope.SetTag("error_kind", errorKind(err))
		scope.SetLevel(sentry.LevelError)
		r.hub.CaptureException(err)
	})
}

// Flush 等待送出
func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// NopReporter 不回報
type NopReporter struct{}

// CaptureError no-op
func (NopReporter) CaptureError(error, string) {}

// Flush no-op
func (NopReporter) Flush(time.Duration) bool { return true }

func errorKind(err error) string {
	var storageErr *common.StorageError
	var generationErr *common.GenerationError
	switch {
	case errors.As(err, &storageErr):
		return "storage"
	case errors.As(err, &generationErr):
		return "generation"
	case common.IsValidationError(err):
		return "validation"
	}
	return "internal"
}
