package store

import (
	"context"
	"time"

	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

// CreateInstance 建立植株
func (s *Store) CreateInstance(ctx context.Context, inst *plant.Instance) (*plant.Instance, error) {
	m := instanceModel(inst)
	if m.ID == "" {
		m.ID = common.GenerateUUID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	out := m.toInstance()
	return &out, nil
}

// ListCultivarNames 依植株建立時間列出品種名，去重由呼叫端處理
func (s *Store) ListCultivarNames(ctx context.Context, typeID, ownerID string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&PlantInstanceModel{}).
		Where("type_id = ? AND owner_id = ? AND cultivar_name <> ''", typeID, ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Pluck("cultivar_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ListInstances 依建立時間列出 owner 的植株
func (s *Store) ListInstances(ctx context.Context, ownerID string) ([]plant.Instance, error) {
	var models []PlantInstanceModel
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]plant.Instance, 0, len(models))
	for i := range models {
		out = append(out, models[i].toInstance())
	}
	return out, nil
}
