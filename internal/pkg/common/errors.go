package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ErrNotFound 紀錄儲存中找不到資料
var ErrNotFound = errors.New("record not found")

// ValidationError 表示驗證錯誤，在任何副作用之前回傳
type ValidationError struct {
	Field   string
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.message)
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// NewFieldValidationError 創建指定欄位的驗證錯誤
func NewFieldValidationError(field, message string) error {
	return &ValidationError{Field: field, message: message}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GenerationError 外部內容生成失敗或輸出無法解析，不會被快取
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Op, e.Err)
}

// Unwrap 回傳原始錯誤
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError 創建生成錯誤
func NewGenerationError(op string, err error) error {
	return &GenerationError{Op: op, Err: err}
}

// IsGenerationError 檢查是否為生成錯誤
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// StorageError 紀錄儲存寫入失敗；只記錄與回報，不向呼叫端傳遞
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

// Unwrap 回傳原始錯誤
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 創建儲存錯誤
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError 檢查是否為儲存錯誤
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
	ErrCodeAIService          = "AI_SERVICE_ERROR"    // 503
)

// 預定義錯誤
var (
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrResourceNotFound   = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)
	ErrQueueFull          = NewError("QUEUE_FULL", "生成隊列已滿", http.StatusServiceUnavailable, nil)
	ErrAIServiceError     = NewError(ErrCodeAIService, "AI 服務錯誤", http.StatusServiceUnavailable, nil)
)

// ToCustomError 依錯誤分類轉換為 API 錯誤
func ToCustomError(err error) *CustomError {
	var (
		ce       *CustomError
		tooLarge *http.MaxBytesError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	case errors.As(err, &tooLarge):
		return NewError(ErrCodeRequestTooLarge, "請求體過大", http.StatusRequestEntityTooLarge, err)
	case IsValidationError(err):
		return NewError(ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrCodeGatewayTimeout, "生成逾時", http.StatusGatewayTimeout, err)
	case IsGenerationError(err):
		return NewError(ErrCodeAIService, "AI 服務錯誤", http.StatusServiceUnavailable, err)
	default:
		return NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, err)
	}
}
