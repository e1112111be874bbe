package config

import (
	"reflect"
	"testing"
)

func TestNormalizeAndValidateDefaults(t *testing.T) {
	_, v := NormalizeAndValidate(Default())
	if !v.OK() {
		t.Errorf("default config invalid: %v", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Errorf("default config warns: %v", v.Warnings)
	}
}

func TestNormalizeAndValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.Search.Pages = 0
	cfg.Search.MinRent = 1200
	cfg.Search.MaxRent = 1000
	cfg.Search.Domain = "  "
	cfg.Scoring.Ranges["average_price"] = Calibration{Min: 1000, Max: 700}

	_, v := NormalizeAndValidate(cfg)
	if v.OK() {
		t.Fatal("invalid config passed validation")
	}
	if len(v.Errors) != 4 {
		t.Errorf("errors = %v, want 4", v.Errors)
	}
}

func TestNormalizeStatusLists(t *testing.T) {
	cfg := Default()
	cfg.Statuses.IgnoreAny = []string{" ignore ", "", "ignore", "IGNORE", "hide"}
	// keywords are folded to lowercase so they can match the lowercased
	// spreadsheet text
	cfg.Statuses.FavouriteAny = []string{"Favourite", "FAV"}

	out, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("unexpected errors: %v", v.Errors)
	}
	if !reflect.DeepEqual(out.Statuses.IgnoreAny, []string{"ignore", "hide"}) {
		t.Errorf("IgnoreAny = %v", out.Statuses.IgnoreAny)
	}
	if !reflect.DeepEqual(out.Statuses.FavouriteAny, []string{"favourite", "fav"}) {
		t.Errorf("FavouriteAny = %v", out.Statuses.FavouriteAny)
	}
}

func TestNegativeWeightWarns(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Weights["average_price"] = -2

	_, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("warning escalated to error: %v", v.Errors)
	}
	if len(v.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", v.Warnings)
	}
}
