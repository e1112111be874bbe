package commute

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"roomhunt-engine/internal/domain"
)

func testService(url string) *Service {
	return &Service{
		apiKey:  "test-key",
		baseURL: url,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 1),
		arrival: "2026-08-25T09:00:00Z",
	}
}

func TestDuration(t *testing.T) {
	var gotKey, gotMask string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		w.Write([]byte(`{"routes":[{"duration":"1920s"}]}`))
	}))
	defer srv.Close()

	s := testService(srv.URL)
	got := s.Duration(context.Background(), domain.Coords{Lat: 51.5, Lon: -0.1}, domain.Coords{Lat: 51.6, Lon: -0.2})
	if got != "32 mins" {
		t.Errorf("Duration = %q, want %q", got, "32 mins")
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotMask == "" {
		t.Errorf("field mask header not set")
	}
}

func TestDurationFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"denied", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}},
		{"no routes", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"routes":[]}`))
		}},
		{"bad duration", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"routes":[{"duration":"soon"}]}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			s := testService(srv.URL)
			got := s.Duration(context.Background(), domain.Coords{}, domain.Coords{})
			if got != Unavailable {
				t.Errorf("Duration = %q, want %q", got, Unavailable)
			}
		})
	}
}

func TestNewWithoutKey(t *testing.T) {
	if New("") != nil {
		t.Errorf("New(\"\") should disable the service")
	}
}

func TestLastTuesday9am(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		// Friday rolls back three days
		{time.Date(2026, 1, 2, 15, 30, 0, 0, time.UTC), "2025-12-30T09:00:00Z"},
		// Tuesday stays put, even before 9am
		{time.Date(2026, 8, 25, 7, 0, 0, 0, time.UTC), "2026-08-25T09:00:00Z"},
		// Monday rolls back six days
		{time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), "2026-08-18T09:00:00Z"},
	}
	for _, tt := range tests {
		if got := lastTuesday9am(tt.now); got != tt.want {
			t.Errorf("lastTuesday9am(%v) = %q, want %q", tt.now, got, tt.want)
		}
	}
}

func TestDestinationFromEnv(t *testing.T) {
	t.Setenv("T_LAT", "51.5034")
	t.Setenv("T_LON", "-0.1195")
	got := DestinationFromEnv("T_LAT", "T_LON")
	if got == nil || got.Lat != 51.5034 || got.Lon != -0.1195 {
		t.Errorf("DestinationFromEnv = %+v", got)
	}

	t.Setenv("T_LON", "")
	if DestinationFromEnv("T_LAT", "T_LON") != nil {
		t.Errorf("half-specified destination should be nil")
	}
}
