// Package export renders the human-facing views of the store: a CSV
// spreadsheet for triage and a standalone map page.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/reconcile"
)

// csvColumns is the spreadsheet layout, status and id first so edits
// round-trip no matter how the rest gets reordered by hand.
var csvColumns = []string{
	"status", "id", "url", "poster_type", "date_added", "type", "area", "score", "collective_word_count",
	"average_price", "average_deposit", "location_1", "location_2", "direct_line_to_office",
	"location", "nearest_station", "available", "minimum_term", "maximum_term", "bills_included",
	"broadband_included", "furnishings", "garden_or_patio", "living_room",
	"balcony_or_roof_terrace", "number_of_flatmates", "total_number_of_rooms",
}

// WriteCSV writes every room priced above minRent, best score first.
func WriteCSV(path string, rooms []domain.Room, minRent int) error {
	kept := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.PricedAbove(minRent) {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range kept {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	log.Printf("[export] wrote %d rooms to %s", len(kept), path)
	return nil
}

func csvRow(r domain.Room) []string {
	return []string{
		r.Status,
		r.ID,
		r.URL,
		r.PosterType,
		r.DateAdded.Format("02-Jan"),
		r.Type,
		r.Area,
		strconv.FormatFloat(r.Score, 'f', 1, 64),
		strconv.Itoa(r.CollectiveWordCount),
		intCell(r.AveragePrice),
		floatCell(r.AverageDeposit),
		r.Location1,
		r.Location2,
		boolCell(r.DirectLine),
		r.Location,
		r.NearestStation,
		r.Available,
		r.MinimumTerm,
		r.MaximumTerm,
		r.BillsIncluded.String(),
		r.BroadbandIncluded.String(),
		r.Furnishings.String(),
		r.GardenOrPatio.String(),
		r.LivingRoom.String(),
		r.BalconyOrRoofTerrace.String(),
		intCell(r.NumberOfFlatmates),
		intCell(r.TotalNumberOfRooms),
	}
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func boolCell(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

// ReadStatusRows reads the status and id columns back out of a
// previously written CSV. ok is false when no export exists yet, which
// callers treat as a first run and skip status sync entirely.
func ReadStatusRows(path string) (rows []reconcile.StatusRow, ok bool, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, true, nil
	}

	statusCol, idCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "status":
			statusCol = i
		case "id":
			idCol = i
		}
	}
	if statusCol < 0 || idCol < 0 {
		return nil, false, fmt.Errorf("csv %s missing status/id columns", path)
	}

	for _, rec := range records[1:] {
		rows = append(rows, reconcile.StatusRow{ID: rec[idCol], Status: rec[statusCol]})
	}
	return rows, true, nil
}
