package cache_test

import (
	"context"
	"testing"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotStore_KeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "shop-a/snapshot", cache.NewSnapshotStore(cache.NewMemory(), "shop-a", zap.NewNop()).Key())
	assert.Equal(t, "snapshot", cache.NewSnapshotStore(cache.NewMemory(), "", zap.NewNop()).Key())
}

func TestSnapshotStore_AbsentIsEmpty(t *testing.T) {
	store := cache.NewSnapshotStore(cache.NewMemory(), "shop", zap.NewNop())

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	assert.NotNil(t, snap.Status)
	assert.Equal(t, cache.SchemaVersion, snap.SchemaVersion)
}

func TestSnapshotStore_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.NewSnapshotStore(cache.NewMemory(), "shop", zap.NewNop())

	err := store.Update(ctx, func(s *cache.Snapshot) {
		s.Customers = []domain.Customer{{ID: 1, Brand: "Toyota", Cost: decimal.NewFromInt(500)}}
		s.Status[1] = true
		s.Session.Generation = 3
	})
	require.NoError(t, err)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "Toyota", snap.Customers[0].Brand)
	assert.True(t, snap.Status[1])
	assert.Equal(t, int64(3), snap.Session.Generation)
	assert.False(t, snap.SavedAt.IsZero())
}

func TestSnapshotStore_UndecodableIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemory()
	require.NoError(t, kv.Put(ctx, "shop/snapshot", []byte(`{"customers": "oops"`)))

	snap, err := cache.NewSnapshotStore(kv, "shop", zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestSnapshotStore_NewerSchemaReadBestEffort(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemory()
	require.NoError(t, kv.Put(ctx, "shop/snapshot", []byte(`{
		"schemaVersion": 7,
		"customers": [{"id": 4, "brand": "Mazda"}],
		"futureField": {"x": 1}
	}`)))

	snap, err := cache.NewSnapshotStore(kv, "shop", zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "Mazda", snap.Customers[0].Brand)
}

func TestSnapshotStore_ImportsLegacyKeys(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemory()
	require.NoError(t, kv.Put(ctx, cache.LegacyCustomersKey, []byte(`{
		"state": {
			"customers": [
				{"id": 1, "name": "Somchai", "surname": "Jaidee", "brand": "Toyota", "cost": "500", "checked": true},
				{"id": 2, "name": "Anong", "surname": "Srisuk", "brand": "Honda", "nextCheckup": 300, "checked": false}
			],
			"carCount": 1
		},
		"version": 0
	}`)))
	require.NoError(t, kv.Put(ctx, cache.LegacyMechanicsKey, []byte(`[{"name": "Phurint", "surname": "B", "tel": "1"}]`)))
	require.NoError(t, kv.Put(ctx, cache.LegacyReportKey, []byte(`{"totalIncome": 800, "carBrands": [{"name": "Toyota", "count": 1, "percentage": 100}]}`)))
	require.NoError(t, kv.Put(ctx, cache.LegacyLockKey, []byte(`false`)))

	store := cache.NewSnapshotStore(kv, "shop", zap.NewNop())
	snap, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Customers, 2)
	assert.True(t, snap.Status[1])
	assert.False(t, snap.Status[2])
	assert.Equal(t, "300", snap.Customers[1].Cost.String())
	require.Len(t, snap.Mechanics, 1)
	require.NotNil(t, snap.Report)
	assert.Equal(t, domain.ReportSourceLocal, snap.Report.Source)
	assert.True(t, snap.Session.Unlocked)

	_, err = kv.Get(ctx, "shop/snapshot")
	assert.NoError(t, err, "imported snapshot is written back")
}

func TestSnapshotStore_BadLegacyKeyIsSkipped(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemory()
	require.NoError(t, kv.Put(ctx, cache.LegacyCustomersKey, []byte(`{{{`)))
	require.NoError(t, kv.Put(ctx, cache.LegacyLockKey, []byte(`true`)))

	snap, err := cache.NewSnapshotStore(kv, "shop", zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Customers)
	assert.False(t, snap.Session.Unlocked)
}

func TestSnapshotStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := cache.NewSnapshotStore(cache.NewMemory(), "shop", zap.NewNop())
	require.NoError(t, store.Update(ctx, func(s *cache.Snapshot) { s.Session.Unlocked = true }))
	require.NoError(t, store.Reset(ctx))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}
