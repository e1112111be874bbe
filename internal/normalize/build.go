package normalize

import (
	"time"

	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/textutil"
)

// Meta carries the listing attributes extracted outside the label→value
// mapping: identity, page-level flags and the description word count.
type Meta struct {
	ID                  string
	URL                 string
	AvailableAllWeek    bool
	ImageURL            string
	PosterType          string
	CollectiveWordCount int
}

// BuildRoom assembles the typed record from the working map. Only
// canonical keys are read; raw keys the normalizer could not convert are
// dropped here, at the normalization boundary.
func BuildRoom(meta Meta, fields map[string]any) domain.Room {
	room := domain.Room{
		ID:                  meta.ID,
		URL:                 meta.URL,
		DateAdded:           time.Now().Truncate(24 * time.Hour),
		AvailableAllWeek:    meta.AvailableAllWeek,
		ImageURL:            meta.ImageURL,
		PosterType:          meta.PosterType,
		CollectiveWordCount: meta.CollectiveWordCount,

		Title:          str(fields, "title"),
		Type:           str(fields, "type"),
		Area:           str(fields, "area"),
		Postcode:       str(fields, "postcode"),
		NearestStation: str(fields, "nearest_station"),
		Available:      str(fields, "available"),
		MinimumTerm:    str(fields, "minimum_term"),
		MaximumTerm:    str(fields, "maximum_term"),

		BillsIncluded:        tri(fields, "bills_included"),
		BroadbandIncluded:    tri(fields, "broadband_included"),
		Furnishings:          tri(fields, "furnishings"),
		GardenOrPatio:        tri(fields, "garden_or_patio"),
		LivingRoom:           tri(fields, "living_room"),
		BalconyOrRoofTerrace: tri(fields, "balcony_or_roof_terrace"),

		NumberOfFlatmates:  intp(fields, "number_of_flatmates"),
		TotalNumberOfRooms: intp(fields, "total_number_of_rooms"),
	}

	if v, ok := fields["average_price"].(int); ok {
		room.AveragePrice = &v
	}
	if v, ok := fields["average_deposit"].(float64); ok {
		room.AverageDeposit = &v
	}
	if v, ok := fields["room_sizes"].([]string); ok {
		room.RoomSizes = v
	}

	return room
}

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func tri(fields map[string]any, key string) domain.TriState {
	t, _ := fields[key].(domain.TriState)
	return t
}

// intp reads an int field; a string that survived a failed cast still
// yields its digits when it has any.
func intp(fields map[string]any, key string) *int {
	switch v := fields[key].(type) {
	case int:
		return &v
	case string:
		if n, ok := textutil.ParseNumber(v); ok {
			i := int(n)
			return &i
		}
	}
	return nil
}
