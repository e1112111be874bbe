package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
)

func priced(id string, price int, score float64) domain.Room {
	return domain.Room{
		ID:           id,
		URL:          "https://example.test/detail.pl?flatshare_id=" + id,
		DateAdded:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		AveragePrice: &price,
		Score:        score,
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.csv")
	rooms := []domain.Room{
		priced("low", 900, 3.5),
		priced("high", 800, 9.1),
		priced("cheap", 150, 20), // at or below min rent, dropped
		{ID: "unpriced", Score: 20},
	}

	if err := WriteCSV(path, rooms, 200); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}
	if records[0][0] != "status" || records[0][1] != "id" {
		t.Errorf("header starts %v, want status,id", records[0][:2])
	}
	// best score first
	if records[1][1] != "high" || records[2][1] != "low" {
		t.Errorf("row order: %s then %s", records[1][1], records[2][1])
	}
	if got := records[1][4]; got != "30-Aug" {
		t.Errorf("date_added = %q, want 30-Aug", got)
	}
	if got := records[1][7]; got != "9.1" {
		t.Errorf("score = %q, want 9.1", got)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.csv")

	fav := priced("1", 900, 5)
	fav.Status = domain.StatusFavourite
	if err := WriteCSV(path, []domain.Room{fav, priced("2", 850, 3)}, 200); err != nil {
		t.Fatal(err)
	}

	rows, ok, err := ReadStatusRows(path)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("export exists but ok = false")
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].ID != "1" || rows[0].Status != domain.StatusFavourite {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].ID != "2" || rows[1].Status != "" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestReadStatusRowsFirstRun(t *testing.T) {
	rows, ok, err := ReadStatusRows(filepath.Join(t.TempDir(), "rooms.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if ok || rows != nil {
		t.Errorf("missing export should report ok=false, got ok=%v rows=%v", ok, rows)
	}
}

func TestWriteMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")

	fav := priced("fav", 900, 5)
	fav.Status = domain.StatusFavourite
	fav.Location = "51.5, -0.1"

	stale := priced("stale", 900, 25)
	stale.Location = "51.6, -0.2"
	stale.DateAdded = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	fresh := priced("fresh", 900, 25)
	fresh.Location = "51.7, -0.3"
	fresh.DateAdded = time.Now().Truncate(24 * time.Hour)

	cfg := config.MapConfig{ShowFavourites: true, ShowNewListings: true, MinScore: 15}
	if err := WriteMap(path, []domain.Room{fav, stale, fresh}, cfg); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(b)
	if !strings.Contains(html, "fav") || !strings.Contains(html, "51.7") {
		t.Errorf("favourite or fresh marker missing from map")
	}
	if strings.Contains(html, "stale") {
		t.Errorf("stale listing plotted on map")
	}
}
