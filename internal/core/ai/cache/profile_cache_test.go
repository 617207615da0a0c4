package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/pkg/common"
)

func sampleProfile(name string) common.CareProfile {
	return common.CareProfile{
		PlantName: name,
		Summary:   "Vigorous climber for walls and fences.",
		Sunlight:  "full sun",
		Tasks: []common.CareTask{
			{Title: "Winter prune", Category: "pruning", StartMonth: 11, EndMonth: 2},
			{Title: "Feed", Category: "feeding", StartMonth: 4, EndMonth: 6},
		},
	}
}

// failingStore 可設定各操作失敗的 RecordStore
type failingStore struct {
	*MemoryStore
	getErr, putErr, incErr error
}

func (s *failingStore) GetEntry(ctx context.Context, key string) (*Entry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.GetEntry(ctx, key)
}

func (s *failingStore) PutEntry(ctx context.Context, e *Entry) (*Entry, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	return s.MemoryStore.PutEntry(ctx, e)
}

func (s *failingStore) IncrementHitCount(ctx context.Context, id string) error {
	if s.incErr != nil {
		return s.incErr
	}
	return s.MemoryStore.IncrementHitCount(ctx, id)
}

func TestProfileCache_RoundTripAndHitCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewProfileCache(store, nil)
	key := DeriveKey("Climbing Rose", "ground", 9, 1)
	profile := sampleProfile("Climbing Rose")

	put, err := c.Put(ctx, key, profile)
	require.NoError(t, err)
	require.NotEmpty(t, put.ID)
	assert.Equal(t, key, put.Key)

	first, ok := c.Lookup(ctx, key)
	require.True(t, ok)
	assert.Equal(t, profile, first.Profile)

	afterFirst, err := store.GetEntry(ctx, key)
	require.NoError(t, err)

	_, ok = c.Lookup(ctx, key)
	require.True(t, ok)

	afterSecond, err := store.GetEntry(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, afterFirst.HitCount+1, afterSecond.HitCount)
}

func TestProfileCache_GetMissHasNoSideEffects(t *testing.T) {
	store := NewMemoryStore()
	c := NewProfileCache(store, nil)

	entry, ok := c.Get(context.Background(), DeriveKey("Tomato", "", 0, 1))
	assert.False(t, ok)
	assert.Nil(t, entry)
	assert.Equal(t, 0, store.Len())
}

func TestProfileCache_ReadFailureIsMiss(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), getErr: errors.New("connection refused")}
	c := NewProfileCache(store, nil)

	_, ok := c.Lookup(context.Background(), "any")
	assert.False(t, ok)
}

func TestProfileCache_PutFailureIsStorageError(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	store := &failingStore{MemoryStore: NewMemoryStore(), putErr: errors.New("disk full")}
	c := NewProfileCache(store, m)

	_, err = c.Put(context.Background(), "k", sampleProfile("Tomato"))
	require.Error(t, err)
	assert.True(t, common.IsStorageError(err))
}

func TestProfileCache_IncrementFailureDoesNotFailLookup(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	c := NewProfileCache(store, nil)

	_, err := c.Put(ctx, "k", sampleProfile("Tomato"))
	require.NoError(t, err)

	store.incErr = errors.New("read only replica")
	entry, ok := c.Lookup(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Tomato", entry.Profile.PlantName)
}

func TestProfileCache_SchemaBumpLeavesOldEntryOrphaned(t *testing.T) {
	ctx := context.Background()
	c := NewProfileCache(NewMemoryStore(), nil)

	oldKey := DeriveKey("Tomato", "pot", 8, 1)
	_, err := c.Put(ctx, oldKey, sampleProfile("Tomato"))
	require.NoError(t, err)

	_, ok := c.Get(ctx, DeriveKey("Tomato", "pot", 8, 2))
	assert.False(t, ok)

	_, ok = c.Get(ctx, oldKey)
	assert.True(t, ok)
}

func TestMemoryStore_PutKeepsExistingEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.PutEntry(ctx, &Entry{ID: "a", Key: "k", Profile: sampleProfile("First")})
	require.NoError(t, err)
	second, err := s.PutEntry(ctx, &Entry{ID: "b", Key: "k", Profile: sampleProfile("Second")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "First", second.Profile.PlantName)
	assert.ErrorIs(t, s.IncrementHitCount(ctx, "missing"), common.ErrNotFound)
}

func TestMemoryStore_ReturnsIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	want := sampleProfile("Climbing Rose")
	want.GrowthHabitTags = []string{"climber", "repeat flowering"}

	input := want.Clone()
	put, err := store.PutEntry(ctx, &Entry{ID: "01", Key: "k", Profile: input})
	require.NoError(t, err)

	// 修改寫入用的資料與回傳的紀錄都不應影響儲存內容
	input.Tasks[0].Title = "changed"
	put.Profile.Tasks[1].Title = "changed"
	put.Profile.GrowthHabitTags[0] = "changed"

	got, err := store.GetEntry(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want, got.Profile)

	got.Profile.Tasks[0].StartMonth = 1
	again, err := store.GetEntry(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want, again.Profile)
}
