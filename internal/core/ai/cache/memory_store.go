package cache

import (
	"context"
	"sync"

	"garden-assistant/internal/pkg/common"
)

// MemoryStore 行程內的 RecordStore，供單機執行與測試使用
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry // key -> entry
	byID    map[string]string // id -> key
}

// NewMemoryStore 建立空的記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		byID:    make(map[string]string),
	}
}

// GetEntry 依鍵讀取
func (s *MemoryStore) GetEntry(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e.clone(), nil
}

// PutEntry 鍵不存在時寫入，存在時回傳既有紀錄
func (s *MemoryStore) PutEntry(_ context.Context, entry *Entry) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[entry.Key]; ok {
		return existing.clone(), nil
	}
	stored := entry.clone()
	s.entries[entry.Key] = stored
	s.byID[entry.ID] = entry.Key
	return stored.clone(), nil
}

// IncrementHitCount 命中次數加一
func (s *MemoryStore) IncrementHitCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	s.entries[key].HitCount++
	return nil
}

// clone 讓呼叫端拿到的紀錄不與儲存內容共用切片
func (e *Entry) clone() *Entry {
	cp := *e
	cp.Profile = e.Profile.Clone()
	return &cp
}

// Len 紀錄數量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
