// Package normalize turns the raw label→value mapping scraped off a
// listing page into canonical, typed fields. It never fails: fields it
// cannot make sense of are logged and left as raw text.
package normalize

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/textutil"
)

// renaming maps the site's inconsistent labels onto canonical names.
// Renaming is additive: the raw key stays in the working map.
var renaming = map[string]string{
	"#_flatmates":          "number_of_flatmates",
	"#_housemates":         "number_of_flatmates",
	"bills_included?":      "bills_included",
	"total_#_rooms":        "total_number_of_rooms",
	"garden/patio":         "garden_or_patio",
	"balcony/roof_terrace": "balcony_or_roof_terrace",
}

var castKeys = []string{"number_of_flatmates", "total_number_of_rooms"}

var triStateKeys = []string{
	"bills_included",
	"broadband_included",
	"furnishings",
	"garden_or_patio",
	"living_room",
	"balcony_or_roof_terrace",
}

var (
	positiveVocab = map[string]bool{"furnished": true, "yes": true, "shared": true}
	partialVocab  = map[string]bool{"some": true}
	negativeVocab = map[string]bool{"unfurnished": true, "no": true}
)

type Normalizer struct{}

// Normalize converts a raw label→value mapping into a working map of
// canonical keys. Raw keys are preserved; downstream only reads the
// canonical ones.
func (n Normalizer) Normalize(raw map[string]string) map[string]any {
	fields := make(map[string]any, len(raw)+4)
	for k, v := range raw {
		fields[k] = v
	}

	n.collapseRooms(raw, fields)
	n.renameKeys(fields)
	n.castCounts(fields)
	n.canonicalizeTriStates(fields)

	return fields
}

// collapseRooms folds per-room priced entries into a single blended
// average price plus an ordered list of room sizes, and deposit entries
// into an average deposit. Prices live in the label ("£900 pcm"), sizes
// and let-markers in the value.
func (n Normalizer) collapseRooms(raw map[string]string, fields map[string]any) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var prices []float64
	var sizes []string
	var deposits []float64

	for _, k := range keys {
		v := raw[k]

		if strings.Contains(k, "£") && !strings.Contains(v, "(NOW LET)") {
			size := ""
			switch {
			case strings.Contains(v, "double"):
				size = "double"
			case strings.Contains(v, "single"):
				size = "single"
			}
			if size != "" {
				sizes = append(sizes, size)
				if price, ok := textutil.ParseNumber(k); ok {
					if strings.Contains(strings.ToLower(k), "pw") {
						price = price * 52 / 12
					}
					prices = append(prices, price)
				}
			}
		}

		if strings.Contains(strings.ToLower(k), "deposit") {
			if dep, ok := textutil.ParseNumber(v); ok {
				deposits = append(deposits, dep)
			}
		}
	}

	if len(prices) > 0 {
		fields["average_price"] = int(sum(prices) / float64(len(prices)))
	}
	if len(sizes) > 0 {
		fields["room_sizes"] = sizes
	}
	if len(deposits) > 0 {
		fields["average_deposit"] = sum(deposits) / float64(len(deposits))
	}
}

func (n Normalizer) renameKeys(fields map[string]any) {
	for rawKey, canonical := range renaming {
		if v, ok := fields[rawKey]; ok {
			fields[canonical] = v
		}
	}
}

func (n Normalizer) castCounts(fields map[string]any) {
	for _, key := range castKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			continue
		}
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			log.Printf("[normalize] failed to cast %s=%q to int", key, s)
			continue
		}
		fields[key] = i
	}
}

func (n Normalizer) canonicalizeTriStates(fields map[string]any) {
	for _, key := range triStateKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			continue
		}
		folded := textutil.Fold(s)
		switch {
		case positiveVocab[folded]:
			fields[key] = domain.TriYes
		case partialVocab[folded]:
			fields[key] = domain.TriPartial
		case negativeVocab[folded]:
			fields[key] = domain.TriNo
		default:
			log.Printf("[normalize] unexpected value %q for %s", s, key)
		}
	}
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
