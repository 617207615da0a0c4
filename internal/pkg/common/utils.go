package common

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateUUID 植物類型與植株紀錄的識別碼
func GenerateUUID() string {
	return uuid.New().String()
}

// NewEntryID 快取紀錄識別碼；以建立時間為前綴，字典序即建立順序
func NewEntryID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}

// CollapseSpaces 合併連續空白並去除前後空白
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
