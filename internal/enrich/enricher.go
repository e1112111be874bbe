// Package enrich derives the computed attributes of a record: whether
// the nearest station sits on a direct line, the location string, and
// commute durations to the configured destinations.
package enrich

import (
	"context"
	"fmt"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/textutil"
)

// LookupFunc is the external travel-time collaborator. It returns a
// duration label such as "32 mins", or "N/A" when the route could not
// be resolved.
type LookupFunc func(ctx context.Context, origin, dest domain.Coords) string

type Enricher struct {
	stations map[string]bool
	lookup   LookupFunc
	dests    [2]*domain.Coords
}

// New builds an Enricher from the configured station rosters. lookup may
// be nil (no travel-time credential configured); either destination may
// be nil (coordinate pair not fully specified). Both gates skip the
// corresponding enrichment without error.
func New(cfg config.Config, lookup LookupFunc, dest1, dest2 *domain.Coords) *Enricher {
	stations := make(map[string]bool, len(cfg.Stations.Jubilee)+len(cfg.Stations.Elizabeth))
	for _, s := range cfg.Stations.Jubilee {
		stations[textutil.Fold(s)] = true
	}
	for _, s := range cfg.Stations.Elizabeth {
		stations[textutil.Fold(s)] = true
	}
	return &Enricher{
		stations: stations,
		lookup:   lookup,
		dests:    [2]*domain.Coords{dest1, dest2},
	}
}

// Enrich mutates room in place. coords may be nil when the listing page
// carried no geocoordinates; travel-time enrichment is location-gated.
func (e *Enricher) Enrich(ctx context.Context, room *domain.Room, coords *domain.Coords) {
	direct := e.onDirectLine(room.NearestStation)
	room.DirectLine = &direct

	if coords == nil {
		return
	}
	room.Location = fmt.Sprintf("%.6f, %.6f", coords.Lat, coords.Lon)

	if e.lookup == nil {
		return
	}
	if e.dests[0] != nil {
		room.Location1 = e.lookup(ctx, *coords, *e.dests[0])
	}
	if e.dests[1] != nil {
		room.Location2 = e.lookup(ctx, *coords, *e.dests[1])
	}
}

func (e *Enricher) onDirectLine(station string) bool {
	if station == "" {
		return false
	}
	return e.stations[textutil.Fold(station)]
}
