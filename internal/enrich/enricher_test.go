package enrich

import (
	"context"
	"fmt"
	"testing"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
)

func stationConfig(stations ...string) config.Config {
	var cfg config.Config
	cfg.Stations.Jubilee = stations
	return cfg
}

func fakeLookup(_ context.Context, origin, dest domain.Coords) string {
	return fmt.Sprintf("%.0f mins", dest.Lat)
}

func TestDirectLine(t *testing.T) {
	e := New(stationConfig("Canada Water", "North Greenwich"), nil, nil, nil)

	tests := []struct {
		station string
		want    bool
	}{
		{"Canada Water", true},
		{"canada water", true}, // comparison is case-insensitive
		{"Peckham Rye", false},
		{"", false},
	}
	for _, tt := range tests {
		room := domain.Room{NearestStation: tt.station}
		e.Enrich(context.Background(), &room, nil)
		if room.DirectLine == nil {
			t.Fatalf("DirectLine not set for %q", tt.station)
		}
		if *room.DirectLine != tt.want {
			t.Errorf("DirectLine(%q) = %v, want %v", tt.station, *room.DirectLine, tt.want)
		}
	}
}

func TestEnrichWithoutCoordinates(t *testing.T) {
	e := New(stationConfig(), fakeLookup, &domain.Coords{Lat: 10}, &domain.Coords{Lat: 20})
	room := domain.Room{}
	e.Enrich(context.Background(), &room, nil)

	if room.Location != "" || room.Location1 != "" || room.Location2 != "" {
		t.Errorf("location fields set without coordinates: %+v", room)
	}
}

func TestEnrichWithoutLookup(t *testing.T) {
	e := New(stationConfig(), nil, &domain.Coords{Lat: 10}, nil)
	room := domain.Room{}
	e.Enrich(context.Background(), &room, &domain.Coords{Lat: 51.5, Lon: -0.1})

	if room.Location != "51.500000, -0.100000" {
		t.Errorf("Location = %q", room.Location)
	}
	if room.Location1 != "" {
		t.Errorf("commute set without a lookup: %q", room.Location1)
	}
}

func TestEnrichCommutes(t *testing.T) {
	e := New(stationConfig(), fakeLookup, &domain.Coords{Lat: 30}, nil)
	room := domain.Room{}
	e.Enrich(context.Background(), &room, &domain.Coords{Lat: 51.5, Lon: -0.1})

	if room.Location1 != "30 mins" {
		t.Errorf("Location1 = %q, want %q", room.Location1, "30 mins")
	}
	if room.Location2 != "" {
		t.Errorf("Location2 set without a second destination: %q", room.Location2)
	}
}
