// Package commute is the travel-time collaborator: a thin client for
// the Google Routes computeRoutes endpoint. Any failure degrades to the
// "N/A" marker; a commute lookup never aborts a batch.
package commute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"roomhunt-engine/internal/domain"
)

const (
	routesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	// Unavailable is returned whenever a duration could not be resolved.
	Unavailable = "N/A"
)

type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	arrival string
}

// New returns a Service, or nil when no API key is configured — the
// caller treats a nil service as "feature off", not an error.
func New(apiKey string) *Service {
	if apiKey == "" {
		return nil
	}
	return &Service{
		apiKey:  apiKey,
		baseURL: routesURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		arrival: lastTuesday9am(time.Now()),
	}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type routesRequest struct {
	Origin             waypoint `json:"origin"`
	Destination        waypoint `json:"destination"`
	TravelMode         string   `json:"travelMode"`
	TransitPreferences struct {
		AllowedTravelModes string `json:"allowedTravelModes"`
	} `json:"transitPreferences"`
	ArrivalTime              string `json:"arrivalTime"`
	ComputeAlternativeRoutes bool   `json:"computeAlternativeRoutes"`
	LanguageCode             string `json:"languageCode"`
	Units                    string `json:"units"`
}

type routesResponse struct {
	Routes []struct {
		Duration string `json:"duration"`
	} `json:"routes"`
}

// Duration returns the rail commute from origin to dest as a label such
// as "32 mins", assuming arrival by 9am on a Tuesday.
func (s *Service) Duration(ctx context.Context, origin, dest domain.Coords) string {
	if err := s.limiter.Wait(ctx); err != nil {
		return Unavailable
	}

	req := routesRequest{
		TravelMode:   "TRANSIT",
		ArrivalTime:  s.arrival,
		LanguageCode: "en-US",
		Units:        "METRIC",
	}
	req.Origin.Location.LatLng = latLng{Latitude: origin.Lat, Longitude: origin.Lon}
	req.Destination.Location.LatLng = latLng{Latitude: dest.Lat, Longitude: dest.Lon}
	req.TransitPreferences.AllowedTravelModes = "RAIL"

	body, err := json.Marshal(req)
	if err != nil {
		return Unavailable
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return Unavailable
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", s.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Printf("[commute] request failed: %v", err)
		return Unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[commute] status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		return Unavailable
	}

	var parsed routesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[commute] bad response body: %v", err)
		return Unavailable
	}
	if len(parsed.Routes) == 0 {
		log.Printf("[commute] no routes for %.4f,%.4f", origin.Lat, origin.Lon)
		return Unavailable
	}

	secs, err := strconv.Atoi(strings.TrimSuffix(parsed.Routes[0].Duration, "s"))
	if err != nil {
		log.Printf("[commute] unparseable duration %q", parsed.Routes[0].Duration)
		return Unavailable
	}
	return fmt.Sprintf("%d mins", secs/60)
}

// DestinationFromEnv reads one destination coordinate pair from the
// environment (e.g. L1_LAT/L1_LON). nil unless both halves parse.
func DestinationFromEnv(latKey, lonKey string) *domain.Coords {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(os.Getenv(latKey)), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(os.Getenv(lonKey)), 64)
	if latErr != nil || lonErr != nil {
		return nil
	}
	return &domain.Coords{Lat: lat, Lon: lon}
}

// lastTuesday9am picks the most recent Tuesday at 09:00 so every run
// queries a comparable rush-hour arrival.
func lastTuesday9am(now time.Time) string {
	offset := (int(now.Weekday()) - int(time.Tuesday) + 7) % 7
	day := now.AddDate(0, 0, -offset)
	arr := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC)
	return arr.Format("2006-01-02T15:04:05Z")
}
