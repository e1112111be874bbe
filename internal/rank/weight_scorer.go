package rank

import (
	"log"
	"math"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/textutil"
)

// booleanAttrs are scored as a flat 0/1 contribution. Everything else
// named in the weight table must appear in the calibration table.
var booleanAttrs = map[string]bool{
	"direct_line_to_office":   true,
	"bills_included":          true,
	"broadband_included":      true,
	"furnishings":             true,
	"garden_or_patio":         true,
	"living_room":             true,
	"balcony_or_roof_terrace": true,
}

// invertedAttrs score higher for higher raw values. Every other range
// attribute prefers low values (short commutes, cheap rent).
var invertedAttrs = map[string]bool{
	"collective_word_count": true,
}

// WeightScorer reduces a record's attributes into one composite score
// using the user's weight table. Pure: same record and config, same
// score.
type WeightScorer struct {
	weights map[string]float64
	ranges  map[string]config.Calibration
}

func NewWeightScorer(cfg config.Config) *WeightScorer {
	return &WeightScorer{
		weights: cfg.Scoring.Weights,
		ranges:  cfg.Scoring.Ranges,
	}
}

func (s *WeightScorer) Score(room domain.Room) float64 {
	var total float64
	for attr, weight := range s.weights {
		total += s.contribution(room, attr) * weight
	}
	return math.Round(total*10) / 10
}

func (s *WeightScorer) contribution(room domain.Room, attr string) float64 {
	val, ok := room.Attribute(attr)
	if !ok {
		return 0
	}

	if booleanAttrs[attr] {
		switch v := val.(type) {
		case bool:
			if v {
				return 1
			}
		case domain.TriState:
			if v.Truthy() {
				return 1
			}
		}
		return 0
	}

	if cal, isRange := s.ranges[attr]; isRange {
		num, ok := numeric(val)
		if !ok {
			return 0
		}
		if invertedAttrs[attr] {
			return (num - cal.Min) / (cal.Max - cal.Min)
		}
		return Normalise(num, cal.Min, cal.Max)
	}

	// Weighted but neither boolean nor calibrated: a config defect, not
	// worth failing the whole record over.
	log.Printf("[rank] attribute %q has a weight but no classification", attr)
	return 0
}

// Normalise maps x linearly onto [1, 0] over [min, max]: the minimum
// scores 1, the maximum 0. Out-of-range values extend past the bounds
// rather than clamping.
func Normalise(x, min, max float64) float64 {
	return 1 - (x-min)/(max-min)
}

func numeric(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return textutil.ParseNumber(v)
	default:
		return 0, false
	}
}
