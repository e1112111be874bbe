package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy plus everything wrong with
// it. Errors are fatal to the run; warnings are logged and ignored.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	// Status keywords are matched against lowercased spreadsheet text,
	// so the keywords themselves must be lowercase too.
	lowerList := func(xs []string) []string {
		ys := trimList(xs)
		for i, y := range ys {
			ys[i] = strings.ToLower(y)
		}
		return ys
	}

	out.Stations.Jubilee = trimList(out.Stations.Jubilee)
	out.Stations.Elizabeth = trimList(out.Stations.Elizabeth)
	out.Statuses.IgnoreAny = lowerList(out.Statuses.IgnoreAny)
	out.Statuses.FavouriteAny = lowerList(out.Statuses.FavouriteAny)
	out.Statuses.MessagedAny = lowerList(out.Statuses.MessagedAny)

	if out.Search.Pages < 1 {
		res.addErr("search.pages must be >= 1")
	}
	if out.Search.MinRent > out.Search.MaxRent {
		res.addErr("search.min_rent (%d) cannot exceed search.max_rent (%d)",
			out.Search.MinRent, out.Search.MaxRent)
	}
	if strings.TrimSpace(out.Search.Domain) == "" {
		res.addErr("search.domain is required")
	}

	for attr, w := range out.Scoring.Weights {
		if w < 0 {
			res.addWarn("scoring.weights[%s] is negative (%.1f); listings with that attribute will be penalised", attr, w)
		}
	}
	for attr, cal := range out.Scoring.Ranges {
		if cal.Min >= cal.Max {
			res.addErr("scoring.ranges[%s]: min (%.1f) must be below max (%.1f)", attr, cal.Min, cal.Max)
		}
	}

	if len(out.Statuses.IgnoreAny) == 0 && len(out.Statuses.FavouriteAny) == 0 && len(out.Statuses.MessagedAny) == 0 {
		res.addWarn("all status keyword lists are empty; spreadsheet edits will never sync back")
	}

	return out, res
}
