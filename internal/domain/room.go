package domain

import (
	"strings"
	"time"
)

// Statuses a human can push back through the export round-trip.
// Ignored rooms never carry a status; they are deleted outright.
const (
	StatusFavourite = "FAVOURITE"
	StatusMessaged  = "MESSAGED"
)

// TriState is the canonical form of the "Yes"/"Some"/"No" listing fields.
type TriState int

const (
	TriUnset TriState = iota
	TriNo
	TriPartial
	TriYes
)

func (t TriState) Truthy() bool { return t == TriYes || t == TriPartial }

func (t TriState) String() string {
	switch t {
	case TriNo:
		return "No"
	case TriPartial:
		return "Some"
	case TriYes:
		return "Yes"
	default:
		return ""
	}
}

// Coords is a latitude/longitude pair.
type Coords struct {
	Lat float64
	Lon float64
}

// Room is the canonical listing record. Pointer fields are optional:
// nil means the source never produced a usable value.
type Room struct {
	ID        string
	Status    string
	URL       string
	DateAdded time.Time // set once at first merge, never mutated

	Title          string
	Type           string
	Area           string
	Postcode       string
	NearestStation string
	PosterType     string
	ImageURL       string
	Available      string
	MaximumTerm    string

	Location   string // "lat, lon", empty when coordinates were missing
	Location1  string // commute label for destination 1 ("32 mins" / "N/A")
	Location2  string // commute label for destination 2
	DirectLine *bool

	MinimumTerm         string // kept as source text, parsed at scoring time
	AveragePrice        *int
	AverageDeposit      *float64
	NumberOfFlatmates   *int
	TotalNumberOfRooms  *int
	CollectiveWordCount int

	BillsIncluded        TriState
	BroadbandIncluded    TriState
	Furnishings          TriState
	GardenOrPatio        TriState
	LivingRoom           TriState
	BalconyOrRoofTerrace TriState

	RoomSizes        []string
	AvailableAllWeek bool

	Score float64 // recomputed by the scorer, never hand-edited
}

// HasNonSingleRoom reports whether at least one advertised room is bigger
// than a single. Rooms without one are invalid and never stored.
func (r *Room) HasNonSingleRoom() bool {
	for _, s := range r.RoomSizes {
		if s != "single" {
			return true
		}
	}
	return false
}

// PricedAbove reports whether the room's blended price is strictly
// above min. Unpriced rooms never qualify. Both the export view and the
// export-absence removal key off this predicate: a room that was never
// shown cannot have been deleted by the user.
func (r *Room) PricedAbove(min int) bool {
	return r.AveragePrice != nil && *r.AveragePrice > min
}

// Attribute resolves a canonical attribute name to its value for scoring.
// ok is false when the record has no usable value for the attribute.
func (r *Room) Attribute(name string) (any, bool) {
	switch name {
	case "direct_line_to_office":
		if r.DirectLine == nil {
			return nil, false
		}
		return *r.DirectLine, true
	case "location_1":
		return nonEmpty(r.Location1)
	case "location_2":
		return nonEmpty(r.Location2)
	case "minimum_term":
		return nonEmpty(r.MinimumTerm)
	case "bills_included":
		return triValue(r.BillsIncluded)
	case "broadband_included":
		return triValue(r.BroadbandIncluded)
	case "furnishings":
		return triValue(r.Furnishings)
	case "garden_or_patio":
		return triValue(r.GardenOrPatio)
	case "living_room":
		return triValue(r.LivingRoom)
	case "balcony_or_roof_terrace":
		return triValue(r.BalconyOrRoofTerrace)
	case "total_number_of_rooms":
		return intValue(r.TotalNumberOfRooms)
	case "number_of_flatmates":
		return intValue(r.NumberOfFlatmates)
	case "average_price":
		return intValue(r.AveragePrice)
	case "collective_word_count":
		return r.CollectiveWordCount, true
	default:
		return nil, false
	}
}

func nonEmpty(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}

func triValue(t TriState) (any, bool) {
	if t == TriUnset {
		return nil, false
	}
	return t, true
}

func intValue(p *int) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// IDFromURL extracts the stable listing id from a listing URL. The id is
// the value of the first query parameter: .../detail.pl?flatshare_id=123&x=y.
func IDFromURL(url string) string {
	_, after, found := strings.Cut(url, "=")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}
