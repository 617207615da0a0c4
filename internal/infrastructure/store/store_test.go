package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/pkg/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "garden.db") + "?_busy_timeout=5000",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProfile(name string) common.CareProfile {
	return common.CareProfile{
		PlantName:       name,
		Summary:         "Needs a sunny wall.",
		GrowthHabitTags: []string{"climbing", "deciduous"},
		Tasks: []common.CareTask{
			{Title: "Tie in new shoots", Category: "training", StartMonth: 5, EndMonth: 8},
			{Title: "Prune", Category: "pruning", StartMonth: 12, EndMonth: 2},
		},
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "postgres"})
	assert.Error(t, err)

	_, err = Open(Options{Driver: DriverMySQL})
	assert.Error(t, err)
}

func TestCacheEntries_RoundTripThroughProfileCache(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	pc := cache.NewProfileCache(s, nil)

	key := cache.DeriveKey("Climbing Rose", "ground", 9, 1)
	profile := testProfile("Climbing Rose")

	put, err := pc.Put(ctx, key, profile)
	require.NoError(t, err)
	assert.Len(t, put.ID, 26)

	got, ok := pc.Lookup(ctx, key)
	require.True(t, ok)
	assert.Equal(t, profile, got.Profile)

	before, err := s.GetEntry(ctx, key)
	require.NoError(t, err)
	_, ok = pc.Lookup(ctx, key)
	require.True(t, ok)
	after, err := s.GetEntry(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, before.HitCount+1, after.HitCount)
}

func TestCacheEntries_PutKeepsFirstWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.PutEntry(ctx, &cache.Entry{ID: "01HZZZZZZZZZZZZZZZZZZZZZZ1", Key: "k", Profile: testProfile("First"), CreatedAt: time.Now()})
	require.NoError(t, err)
	second, err := s.PutEntry(ctx, &cache.Entry{ID: "01HZZZZZZZZZZZZZZZZZZZZZZ2", Key: "k", Profile: testProfile("Second"), CreatedAt: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "First", second.Profile.PlantName)
}

func TestCacheEntries_MissAndUnknownID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetEntry(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, s.IncrementHitCount(ctx, "nope"), common.ErrNotFound)
}

func TestPlantTypes_InsertOrFetchIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := plant.TypeIdentity{TopLevel: "Rose", MiddleLevel: "Climbing Rose"}

	rec, created, err := s.InsertOrFetchType(ctx, id, []string{"climbing"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, rec.CareProfile)
	assert.Equal(t, []string{"climbing"}, rec.GrowthHabitTags)

	again, created, err := s.InsertOrFetchType(ctx, id, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rec.ID, again.ID)
}

func TestPlantTypes_ConcurrentInsertOrFetch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := plant.TypeIdentity{TopLevel: "Tomato", MiddleLevel: "Cherry Tomato"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := map[string]struct{}{}
	createdCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, created, err := s.InsertOrFetchType(ctx, id, nil)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[rec.ID] = struct{}{}
			if created {
				createdCount++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, createdCount)
}

func TestPlantTypes_UpsertProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := plant.TypeIdentity{TopLevel: "Rose", MiddleLevel: "Climbing Rose"}

	rec, _, err := s.InsertOrFetchType(ctx, id, nil)
	require.NoError(t, err)

	updated, err := s.UpsertTypeProfile(ctx, id, testProfile("Climbing Rose"))
	require.NoError(t, err)
	assert.Equal(t, rec.ID, updated.ID)
	require.NotNil(t, updated.CareProfile)
	assert.Equal(t, "Climbing Rose", updated.CareProfile.PlantName)
	assert.Equal(t, []string{"climbing", "deciduous"}, updated.GrowthHabitTags)

	fresh, err := s.UpsertTypeProfile(ctx, plant.TypeIdentity{TopLevel: "Fern"}, testProfile("Fern"))
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.ID)
	assert.Equal(t, "", fresh.MiddleLevel)
}

func TestInstances_CultivarsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, _, err := s.InsertOrFetchType(ctx, plant.TypeIdentity{TopLevel: "Rose", MiddleLevel: "Climbing Rose"}, nil)
	require.NoError(t, err)

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i, c := range []struct{ owner, cultivar string }{
		{"owner-1", "New Dawn"},
		{"owner-2", "Iceberg"},
		{"owner-1", ""},
		{"owner-1", "Albertine"},
	} {
		typeID := rec.ID
		_, err := s.CreateInstance(ctx, &plant.Instance{
			ID:           common.GenerateUUID(),
			OwnerID:      c.owner,
			TypeID:       &typeID,
			CultivarName: c.cultivar,
			PlantedIn:    common.PlantedInGround,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	names, err := s.ListCultivarNames(ctx, rec.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"New Dawn", "Albertine"}, names)

	all, err := s.ListInstances(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, common.PlantedInGround, all[0].PlantedIn)
}

func TestResolverOverGormStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := identity.NewResolver(s)

	res, err := r.ResolveIdentity(ctx, "owner-1", "Tomato", "Cherry Tomato")
	require.NoError(t, err)
	assert.False(t, res.Exists)

	_, err = r.LinkInstance(ctx, identity.NewInstance{
		OwnerID: "owner-1", TopLevel: "Tomato", MiddleLevel: "Cherry Tomato", CultivarName: "X",
	}, identity.DecisionMerge)
	require.NoError(t, err)

	res, err = r.ResolveIdentity(ctx, "owner-1", "Tomato", "Cherry Tomato")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.Equal(t, []string{"X"}, res.ExistingCultivarNames)
}
