// Package pipeline runs one end to end pass: sync the store with the
// last export, sweep expired listings, scrape new candidates, score
// everything, and persist.
package pipeline

import (
	"context"
	"log"

	"roomhunt-engine/internal/commute"
	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/enrich"
	"roomhunt-engine/internal/export"
	"roomhunt-engine/internal/normalize"
	"roomhunt-engine/internal/rank"
	"roomhunt-engine/internal/reconcile"
	"roomhunt-engine/internal/scrape"
	"roomhunt-engine/internal/store"
)

type Deps struct {
	Cfg     config.Config
	DB      *store.DB
	Source  scrape.CandidateSource
	Fetcher scrape.PageFetcher
	Commute *commute.Service // nil disables commute lookups
	Dest1   *domain.Coords
	Dest2   *domain.Coords
}

// Run executes a full pass and returns the persisted room set.
func Run(ctx context.Context, d Deps) ([]domain.Room, error) {
	rec := reconcile.New(d.DB, d.Cfg)
	if err := rec.Load(ctx); err != nil {
		return nil, err
	}

	rows, ok, err := export.ReadStatusRows(d.Cfg.App.OutputCSV)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := rec.SyncStatuses(rows); err != nil {
			return nil, err
		}
		rec.RemoveAbsent(rows)
		rec.ApplyStatuses()
	} else {
		log.Printf("[pipeline] no export at %s yet, skipping status sync", d.Cfg.App.OutputCSV)
	}

	if d.Cfg.Search.CheckExpired {
		rec.CheckExpired(ctx, d.Fetcher)
	}

	query := scrape.SearchQuery{
		Area:          d.Cfg.Search.Area,
		MinRent:       d.Cfg.Search.MinRent,
		MaxRent:       d.Cfg.Search.MaxRent,
		MinTermMonths: d.Cfg.Search.MinTermMonths,
	}
	if err := d.Source.Search(ctx, query); err != nil {
		return nil, err
	}
	candidates, err := d.Source.Candidates(ctx, d.Cfg.Search.Pages)
	if err != nil {
		return nil, err
	}
	fresh := rec.FilterNew(candidates)
	log.Printf("[pipeline] %d candidates, %d new", len(candidates), len(fresh))

	var lookup enrich.LookupFunc
	if d.Commute != nil {
		lookup = d.Commute.Duration
	}
	enricher := enrich.New(d.Cfg, lookup, d.Dest1, d.Dest2)
	var normalizer normalize.Normalizer
	scorer := rank.NewWeightScorer(d.Cfg)

	merged := 0
	for i, url := range fresh {
		log.Printf("[pipeline] fetching %d/%d %s", i+1, len(fresh), url)
		html, _, err := d.Fetcher.FetchHTML(ctx, url)
		if err != nil {
			log.Printf("[pipeline] fetch %s: %v", url, err)
			continue
		}
		listing, err := scrape.ParseListing(url, html)
		if err != nil {
			log.Printf("[pipeline] parse %s: %v", url, err)
			continue
		}

		fields := normalizer.Normalize(listing.Fields)
		room := normalize.BuildRoom(normalize.Meta{
			ID:                  listing.ID,
			URL:                 listing.URL,
			AvailableAllWeek:    listing.AvailableAllWeek,
			ImageURL:            listing.ImageURL,
			PosterType:          listing.PosterType,
			CollectiveWordCount: listing.CollectiveWordCount,
		}, fields)
		enricher.Enrich(ctx, &room, listing.Coords)
		if rec.MergeNew(room) {
			merged++
		}
	}
	log.Printf("[pipeline] merged %d new rooms", merged)

	// Rescore the whole set so weight or calibration changes take
	// effect on old records too.
	for i := range rec.Rooms {
		rec.Rooms[i].Score = scorer.Score(rec.Rooms[i])
	}

	if err := rec.Persist(ctx); err != nil {
		return nil, err
	}
	return rec.Rooms, nil
}
