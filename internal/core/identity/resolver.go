// Package identity 解析標準植物類型的身分，並處理使用者植株與類型的連結
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

// Store 植物類型與植株的持久化儲存。
// 類型的唯一性只由 InsertOrFetchType 在建立時保證
type Store interface {
	// FindType 以 (TopLevel, MiddleLevel) 完全比對，找不到時回傳 common.ErrNotFound
	FindType(ctx context.Context, id plant.TypeIdentity) (*plant.TypeRecord, error)
	// InsertOrFetchType 原子地建立類型，已存在時回傳既有紀錄；created 表示是否為新建
	InsertOrFetchType(ctx context.Context, id plant.TypeIdentity, tags []string) (record *plant.TypeRecord, created bool, err error)
	// UpsertTypeProfile 以身分為衝突鍵寫入共享照護檔案
	UpsertTypeProfile(ctx context.Context, id plant.TypeIdentity, profile common.CareProfile) (*plant.TypeRecord, error)
	// ListCultivarNames 連結到該類型、屬於 owner 的植株品種名，依植株建立時間排序
	ListCultivarNames(ctx context.Context, typeID, ownerID string) ([]string, error)
	// CreateInstance 建立植株
	CreateInstance(ctx context.Context, inst *plant.Instance) (*plant.Instance, error)
	// ListInstances 列出 owner 的植株
	ListInstances(ctx context.Context, ownerID string) ([]plant.Instance, error)
}

// Result 身分查詢結果，僅供呼叫端決定是否合併
type Result struct {
	Exists                bool     `json:"exists"`
	RecordID              string   `json:"record_id,omitempty"`
	ExistingCultivarNames []string `json:"existing_cultivar_names,omitempty"`
}

// Decision 建立植株時呼叫端的選擇
type Decision string

const (
	// DecisionMerge 連結到既有（或新建）的共享類型
	DecisionMerge Decision = "merge"
	// DecisionSeparate 建立未連結的植株
	DecisionSeparate Decision = "separate"
)

// ParseDecision 解析決策，空字串視為 merge
func ParseDecision(raw string) (Decision, error) {
	switch Decision(raw) {
	case "", DecisionMerge:
		return DecisionMerge, nil
	case DecisionSeparate:
		return DecisionSeparate, nil
	}
	return "", common.NewFieldValidationError("decision", fmt.Sprintf("unsupported value %q", raw))
}

// NewInstance 建立植株的輸入
type NewInstance struct {
	OwnerID      string
	TopLevel     string
	MiddleLevel  string
	CultivarName string
	Nickname     string
	Location     string
	PlantedIn    common.PlantedIn
}

// Resolver 植物類型身分解析
type Resolver struct {
	store Store
	now   func() time.Time
}

// NewResolver 建立解析器
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// ResolveIdentity 查詢 (top, middle) 是否已有類型紀錄。
// 找到時附上 owner 已連結植株的品種名（去重、非空、依建立順序）。此路徑不保證唯一性
func (r *Resolver) ResolveIdentity(ctx context.Context, ownerID, topLevel, middleLevel string) (Result, error) {
	id, err := plant.NewTypeIdentity(topLevel, middleLevel)
	if err != nil {
		return Result{}, err
	}

	record, err := r.store.FindType(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return Result{Exists: false}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("find plant type %q: %w", id.DisplayName(), err)
	}

	names, err := r.store.ListCultivarNames(ctx, record.ID, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("list cultivars for %s: %w", record.ID, err)
	}

	return Result{
		Exists:                true,
		RecordID:              record.ID,
		ExistingCultivarNames: distinctNonEmpty(names),
	}, nil
}

// LinkInstance 依呼叫端決策建立植株：merge 時原子地取得或建立類型並連結
func (r *Resolver) LinkInstance(ctx context.Context, in NewInstance, decision Decision) (*plant.Instance, error) {
	inst := &plant.Instance{
		ID:           common.GenerateUUID(),
		OwnerID:      common.CollapseSpaces(in.OwnerID),
		CultivarName: common.CollapseSpaces(in.CultivarName),
		Nickname:     common.CollapseSpaces(in.Nickname),
		Location:     common.CollapseSpaces(in.Location),
		PlantedIn:    in.PlantedIn,
		CreatedAt:    r.now().UTC(),
	}
	if inst.OwnerID == "" {
		return nil, common.NewFieldValidationError("owner_id", "is required")
	}

	if decision == DecisionMerge {
		id, err := plant.NewTypeIdentity(in.TopLevel, in.MiddleLevel)
		if err != nil {
			return nil, err
		}
		record, created, err := r.store.InsertOrFetchType(ctx, id, nil)
		if err != nil {
			return nil, fmt.Errorf("insert or fetch plant type %q: %w", id.DisplayName(), err)
		}
		if created {
			common.LogInfo("已建立植物類型",
				zap.String("id", record.ID),
				zap.String("top_level", record.TopLevel),
				zap.String("middle_level", record.MiddleLevel),
			)
		}
		typeID := record.ID
		inst.TypeID = &typeID
	}

	stored, err := r.store.CreateInstance(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("create plant instance: %w", err)
	}
	return stored, nil
}

// ListInstances 列出 owner 的植株
func (r *Resolver) ListInstances(ctx context.Context, ownerID string) ([]plant.Instance, error) {
	owner := common.CollapseSpaces(ownerID)
	if owner == "" {
		return nil, common.NewFieldValidationError("owner_id", "is required")
	}
	return r.store.ListInstances(ctx, owner)
}

func distinctNonEmpty(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = common.CollapseSpaces(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
