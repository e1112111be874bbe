package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"roomhunt-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "rooms.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db.Pool); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestReplaceAndLoadRooms(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	price := 850
	deposit := 900.5
	flatmates := 2
	direct := true
	room := domain.Room{
		ID:                  "12345",
		Status:              domain.StatusFavourite,
		URL:                 "https://example.test/detail.pl?flatshare_id=12345",
		DateAdded:           time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Title:               "Lovely double room",
		NearestStation:      "Canada Water",
		Location:            "51.500000, -0.100000",
		Location1:           "32 mins",
		DirectLine:          &direct,
		AveragePrice:        &price,
		AverageDeposit:      &deposit,
		NumberOfFlatmates:   &flatmates,
		CollectiveWordCount: 7,
		BillsIncluded:       domain.TriYes,
		Furnishings:         domain.TriPartial,
		RoomSizes:           []string{"double", "single"},
		AvailableAllWeek:    true,
		Score:               12.3,
	}

	if err := db.ReplaceRooms(ctx, []domain.Room{room}); err != nil {
		t.Fatal(err)
	}
	got, err := db.LoadRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d rooms, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], room) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], room)
	}
}

func TestReplaceRoomsOverwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	a := domain.Room{ID: "a", URL: "u", DateAdded: day}
	b := domain.Room{ID: "b", URL: "u", DateAdded: day}

	if err := db.ReplaceRooms(ctx, []domain.Room{a, b}); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceRooms(ctx, []domain.Room{b}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("store not replaced: %+v", got)
	}
}

func TestLoadRoomsEmpty(t *testing.T) {
	db := openTestDB(t)
	got, err := db.LoadRooms(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("fresh store should be empty, got %d", len(got))
	}
}

func TestReadIDListMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.ids")
	ids, err := ReadIDList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("missing list should read empty, got %v", ids)
	}
	// the file is remade so the next run finds it
	if _, err := os.Stat(path); err != nil {
		t.Errorf("missing list not remade: %v", err)
	}
}

func TestIDListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favourites.ids")
	if err := WriteIDList(path, []string{"b", "a", "c"}); err != nil {
		t.Fatal(err)
	}
	ids, err := ReadIDList(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Errorf("ids = %v, want sorted", ids)
	}
}
