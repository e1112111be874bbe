package reconcile_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/export"
	"roomhunt-engine/internal/reconcile"
	"roomhunt-engine/internal/store"
)

// One full reconciliation round against an unedited export: load, sync,
// apply, persist, re-export.
func runCycle(t *testing.T, db *store.DB, cfg config.Config, csvPath string) []domain.Room {
	t.Helper()
	ctx := context.Background()

	rec := reconcile.New(db, cfg)
	if err := rec.Load(ctx); err != nil {
		t.Fatal(err)
	}

	rows, ok, err := export.ReadStatusRows(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		if err := rec.SyncStatuses(rows); err != nil {
			t.Fatal(err)
		}
		rec.RemoveAbsent(rows)
		rec.ApplyStatuses()
	}

	if err := rec.Persist(ctx); err != nil {
		t.Fatal(err)
	}
	if err := export.WriteCSV(csvPath, rec.Rooms, cfg.Search.MinRent); err != nil {
		t.Fatal(err)
	}
	return rec.Rooms
}

func TestReconcileCycleIsIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	csvPath := filepath.Join(cfg.App.DataDir, "rooms.csv")

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "rooms.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatal(err)
	}

	// Seed run: merge two valid rooms, one of which the export view
	// filters out on price.
	ctx := context.Background()
	rec := reconcile.New(db, cfg)
	if err := rec.Load(ctx); err != nil {
		t.Fatal(err)
	}
	shown := 900
	hidden := cfg.Search.MinRent
	for _, room := range []domain.Room{
		{
			ID:               "shown",
			URL:              "https://example.test/detail.pl?flatshare_id=shown",
			Location:         "51.500000, -0.100000",
			RoomSizes:        []string{"double"},
			AvailableAllWeek: true,
			AveragePrice:     &shown,
		},
		{
			ID:               "hidden",
			URL:              "https://example.test/detail.pl?flatshare_id=hidden",
			Location:         "51.510000, -0.110000",
			RoomSizes:        []string{"double"},
			AvailableAllWeek: true,
			AveragePrice:     &hidden,
		},
	} {
		if !rec.MergeNew(room) {
			t.Fatalf("seed room %s rejected", room.ID)
		}
	}
	if err := rec.Persist(ctx); err != nil {
		t.Fatal(err)
	}
	if err := export.WriteCSV(csvPath, rec.Rooms, cfg.Search.MinRent); err != nil {
		t.Fatal(err)
	}

	// With no human edits, further rounds must not change the store.
	first := runCycle(t, db, cfg, csvPath)
	second := runCycle(t, db, cfg, csvPath)

	if len(first) != 2 {
		t.Fatalf("round 1 lost rooms: %+v", first)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("store drifted between rounds:\n round 1 %+v\n round 2 %+v", first, second)
	}
}
