// Package scrape defines the collaborator boundary to the listing site
// and the parser that turns a fetched page into the raw field mapping
// the normalizer consumes.
package scrape

import (
	"context"

	"roomhunt-engine/internal/domain"
)

// SearchQuery is the advanced-search form input.
type SearchQuery struct {
	Area          string
	MinRent       int
	MaxRent       int
	MinTermMonths int
}

// CandidateSource surfaces candidate listing URLs for a query. It may
// return the same URL more than once across pages; dedup is the
// caller's job.
type CandidateSource interface {
	Search(ctx context.Context, q SearchQuery) error
	Candidates(ctx context.Context, pages int) ([]string, error)
}

// PageFetcher retrieves one page through the shared browser session.
// finalURL is where the navigation actually landed, which the liveness
// check compares against the requested URL.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (html string, finalURL string, err error)
}

// Listing is the raw extraction of one listing page: the loosely-typed
// label→value mapping plus the page-level attributes that live outside
// it.
type Listing struct {
	ID                  string
	URL                 string
	Fields              map[string]string
	Coords              *domain.Coords
	PosterType          string
	ImageURL            string
	AvailableAllWeek    bool
	CollectiveWordCount int
}
