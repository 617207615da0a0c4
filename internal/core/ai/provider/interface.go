package provider

import (
	"context"
	"time"

	"garden-assistant/internal/pkg/common"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// ChatCompleter 定義 AI 對話補全提供者介面
type ChatCompleter interface {
	// Complete 送出對話並取得第一個回覆
	Complete(ctx context.Context, req *Request) (*Response, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// ContentGenerator 外部照護內容生成器
type ContentGenerator interface {
	// GenerateCareProfile 依正規化名稱與上下文產生照護檔案；topLevelHint 可為空
	GenerateCareProfile(ctx context.Context, name string, gctx common.GenerationContext, topLevelHint string) (*common.CareProfile, error)

	// IdentifyPlant 將自由文字描述辨識為 (TopLevel, MiddleLevel)
	IdentifyPlant(ctx context.Context, query string) (*common.Identification, error)
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	BaseURL     string
	Referer     string
	Title       string
}
