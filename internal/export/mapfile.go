package export

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
)

// Central London. The map always opens here regardless of markers.
const (
	mapCenterLat = 51.5074
	mapCenterLon = -0.1278
)

type marker struct {
	Lat    float64
	Lon    float64
	Colour string
	Popup  template.HTML
}

var mapTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Rooms</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 12);
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png', {
	attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
}).addTo(map);
{{range .Markers}}
L.circleMarker([{{.Lat}}, {{.Lon}}], {radius: 7, color: '{{.Colour}}', fillOpacity: 0.8})
	.bindPopup({{.Popup}})
	.addTo(map);
{{end}}
</script>
</body>
</html>
`))

// WriteMap renders favourites (gold) and today's high scorers (blue)
// onto a standalone Leaflet page.
func WriteMap(path string, rooms []domain.Room, cfg config.MapConfig) error {
	var favourites, fresh []domain.Room
	today := time.Now().Truncate(24 * time.Hour)
	for _, r := range rooms {
		switch {
		case r.Status == domain.StatusFavourite:
			favourites = append(favourites, r)
		case r.Score > cfg.MinScore && r.DateAdded.Equal(today):
			fresh = append(fresh, r)
		}
	}

	var markers []marker
	if cfg.ShowFavourites {
		markers = append(markers, buildMarkers(favourites, "gold")...)
	}
	if cfg.ShowNewListings {
		markers = append(markers, buildMarkers(fresh, "blue")...)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	defer f.Close()

	data := struct {
		CenterLat float64
		CenterLon float64
		Markers   []marker
	}{mapCenterLat, mapCenterLon, markers}
	if err := mapTmpl.Execute(f, data); err != nil {
		return err
	}
	log.Printf("[export] wrote %d markers to %s", len(markers), path)
	return nil
}

func buildMarkers(rooms []domain.Room, colour string) []marker {
	var out []marker
	for _, r := range rooms {
		lat, lon, ok := splitLocation(r.Location)
		if !ok {
			continue
		}
		out = append(out, marker{Lat: lat, Lon: lon, Colour: colour, Popup: popupHTML(r)})
	}
	return out
}

func popupHTML(r domain.Room) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>ID:</b> %s<br>", template.HTMLEscapeString(r.ID))
	fmt.Fprintf(&b, "<b>Date added:</b> %s<br>", r.DateAdded.Format("2006-01-02"))
	fmt.Fprintf(&b, "<b>Score:</b> %.1f<br>", r.Score)
	if r.AveragePrice != nil {
		fmt.Fprintf(&b, "<b>Price:</b> %d<br>", *r.AveragePrice)
	}
	fmt.Fprintf(&b, `<a href=%q target="_blank">View room</a>`, r.URL)
	if r.ImageURL != "" {
		fmt.Fprintf(&b, `<br><img src=%q width="100">`, r.ImageURL)
	}
	return template.HTML(b.String())
}

func splitLocation(loc string) (lat, lon float64, ok bool) {
	left, right, found := strings.Cut(loc, ",")
	if !found {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(left), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
