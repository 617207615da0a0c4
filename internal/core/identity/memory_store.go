package identity

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

// MemoryStore 行程內的 Store，供單機執行與測試使用
type MemoryStore struct {
	mu        sync.Mutex
	types     map[plant.TypeIdentity]*plant.TypeRecord
	instances []plant.Instance
	now       func() time.Time
}

// NewMemoryStore 建立空的記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		types: make(map[plant.TypeIdentity]*plant.TypeRecord),
		now:   time.Now,
	}
}

// FindType 完全比對
func (s *MemoryStore) FindType(_ context.Context, id plant.TypeIdentity) (*plant.TypeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.types[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec.Clone(), nil
}

// InsertOrFetchType 在同一把鎖內完成檢查與建立
func (s *MemoryStore) InsertOrFetchType(_ context.Context, id plant.TypeIdentity, tags []string) (*plant.TypeRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.types[id]; ok {
		return rec.Clone(), false, nil
	}
	now := s.now().UTC()
	rec := &plant.TypeRecord{
		ID:              common.GenerateUUID(),
		TopLevel:        id.TopLevel,
		MiddleLevel:     id.MiddleLevel,
		GrowthHabitTags: slices.Clone(tags),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.types[id] = rec
	return rec.Clone(), true, nil
}

// UpsertTypeProfile 以身分為鍵寫入照護檔案
func (s *MemoryStore) UpsertTypeProfile(_ context.Context, id plant.TypeIdentity, profile common.CareProfile) (*plant.TypeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	rec, ok := s.types[id]
	if !ok {
		rec = &plant.TypeRecord{
			ID:          common.GenerateUUID(),
			TopLevel:    id.TopLevel,
			MiddleLevel: id.MiddleLevel,
			CreatedAt:   now,
		}
		s.types[id] = rec
	}
	p := profile.Clone()
	rec.CareProfile = &p
	if len(profile.GrowthHabitTags) > 0 {
		rec.GrowthHabitTags = slices.Clone(profile.GrowthHabitTags)
	}
	rec.UpdatedAt = now
	return rec.Clone(), nil
}

// ListCultivarNames 依植株建立時間排序
func (s *MemoryStore) ListCultivarNames(_ context.Context, typeID, ownerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	linked := make([]plant.Instance, 0)
	for _, inst := range s.instances {
		if inst.TypeID != nil && *inst.TypeID == typeID && inst.OwnerID == ownerID && inst.CultivarName != "" {
			linked = append(linked, inst)
		}
	}
	sort.SliceStable(linked, func(i, j int) bool {
		return linked[i].CreatedAt.Before(linked[j].CreatedAt)
	})

	names := make([]string, 0, len(linked))
	for _, inst := range linked {
		names = append(names, inst.CultivarName)
	}
	return names, nil
}

// CreateInstance 建立植株
func (s *MemoryStore) CreateInstance(_ context.Context, inst *plant.Instance) (*plant.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *inst
	if stored.ID == "" {
		stored.ID = common.GenerateUUID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}
	s.instances = append(s.instances, stored)
	cp := stored
	return &cp, nil
}

// ListInstances 依建立時間列出 owner 的植株
func (s *MemoryStore) ListInstances(_ context.Context, ownerID string) ([]plant.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]plant.Instance, 0)
	for _, inst := range s.instances {
		if inst.OwnerID == ownerID {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
