package repository

import (
	"context"
	"testing"
	"time"

	"VolPath/internal/domain/models"
	"VolPath/pkg/cache"
)

func sampleResult() *models.SimulationResult {
	return &models.SimulationResult{
		Points: []models.PathPoint{
			{Time: 0, Value: 16.94, PathID: 1},
			{Time: 6.5, Value: 17.4, PathID: 1},
			{Time: 13, Value: 18.02, PathID: 1},
		},
		Stats: []models.PathStatistics{
			{PathID: 1, StartValue: 16.94, EndValue: 18.02, PathMax: 18.02, PathMin: 16.94, TotalVariation: 1.08},
		},
	}
}

func TestCachedResultStore_RoundTrip(t *testing.T) {
	store := NewCachedResultStore(cache.NewMemoryCache(), time.Minute, nil)
	ctx := context.Background()

	key := "run:16.94:18.02:18.86:16.25:13:moderate:auto:1:2:42"
	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("unexpected hit on empty store")
	}

	want := sampleResult()
	if err := store.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got.Points) != len(want.Points) || len(got.Stats) != len(want.Stats) {
		t.Fatalf("shape mismatch: %d points %d stats", len(got.Points), len(got.Stats))
	}
	for i, pt := range got.Points {
		if pt != want.Points[i] {
			t.Fatalf("point %d = %+v, want %+v", i, pt, want.Points[i])
		}
	}
	if got.Stats[0] != want.Stats[0] {
		t.Fatalf("stats = %+v, want %+v", got.Stats[0], want.Stats[0])
	}
}

func TestCachedResultStore_KeyIsolation(t *testing.T) {
	store := NewCachedResultStore(cache.NewMemoryCache(), time.Minute, nil)
	ctx := context.Background()

	if err := store.Set(ctx, "key-a", sampleResult()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := store.Get(ctx, "key-b"); ok {
		t.Fatal("key-b should miss")
	}
}
