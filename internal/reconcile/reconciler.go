// Package reconcile owns the load → sync → merge → persist lifecycle of
// the room store, keeping it convergent with both freshly scraped
// candidates and human status edits round-tripped through the export.
package reconcile

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/scrape"
	"roomhunt-engine/internal/store"
)

// StatusRow is one (identifier, status) pair read back from the export.
type StatusRow struct {
	ID     string
	Status string
}

type Reconciler struct {
	db  *store.DB
	cfg config.Config

	ignoredPath   string
	favouritePath string
	messagedPath  string

	Rooms      []domain.Room
	ignored    map[string]bool
	favourites map[string]bool
	messaged   map[string]bool
}

func New(db *store.DB, cfg config.Config) *Reconciler {
	return &Reconciler{
		db:            db,
		cfg:           cfg,
		ignoredPath:   filepath.Join(cfg.App.DataDir, "ignored.ids"),
		favouritePath: filepath.Join(cfg.App.DataDir, "favourites.ids"),
		messagedPath:  filepath.Join(cfg.App.DataDir, "messaged.ids"),
		ignored:       map[string]bool{},
		favourites:    map[string]bool{},
		messaged:      map[string]bool{},
	}
}

// Load pulls the record collection and the three id sets into memory.
// Missing list files come back empty; only a broken store is fatal.
func (r *Reconciler) Load(ctx context.Context) error {
	rooms, err := r.db.LoadRooms(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	r.Rooms = rooms
	log.Printf("[reconcile] store has %d listings", len(rooms))

	for _, l := range []struct {
		path string
		into map[string]bool
	}{
		{r.ignoredPath, r.ignored},
		{r.favouritePath, r.favourites},
		{r.messagedPath, r.messaged},
	} {
		ids, err := store.ReadIDList(l.path)
		if err != nil {
			return err
		}
		for _, id := range ids {
			l.into[id] = true
		}
	}
	return nil
}

// RemoveAbsent drops every stored record whose identifier no longer
// appears in the export round: the human deleted the row, so the room
// goes too. Rooms the export view filters out on price were never shown
// to the human, so their absence means nothing and they are kept. Call
// only when an export actually exists.
func (r *Reconciler) RemoveAbsent(rows []StatusRow) {
	present := make(map[string]bool, len(rows))
	for _, row := range rows {
		present[row.ID] = true
	}

	kept := r.Rooms[:0]
	for _, room := range r.Rooms {
		if present[room.ID] || !room.PricedAbove(r.cfg.Search.MinRent) {
			kept = append(kept, room)
		} else {
			log.Printf("[reconcile] %s removed from export, dropping", room.ID)
		}
	}
	r.Rooms = kept
}

// SyncStatuses folds the export's status column into the three id sets.
// Each set that picked up new ids is persisted immediately. Unknown
// status text is a warning, never a stop.
func (r *Reconciler) SyncStatuses(rows []StatusRow) error {
	groups := []struct {
		name     string
		keywords []string
		set      map[string]bool
		path     string
	}{
		{"ignored", r.cfg.Statuses.IgnoreAny, r.ignored, r.ignoredPath},
		{"favourites", r.cfg.Statuses.FavouriteAny, r.favourites, r.favouritePath},
		{"messaged", r.cfg.Statuses.MessagedAny, r.messaged, r.messagedPath},
	}

	known := map[string]bool{}
	for _, g := range groups {
		for _, kw := range g.keywords {
			known[kw] = true
		}
	}
	for _, row := range rows {
		status := strings.ToLower(strings.TrimSpace(row.Status))
		if status != "" && !known[status] {
			log.Printf("[reconcile] room %s has invalid status %q", row.ID, row.Status)
		}
	}

	for _, g := range groups {
		var added []string
		for _, row := range rows {
			status := strings.ToLower(strings.TrimSpace(row.Status))
			if status == "" || !matches(status, g.keywords) || g.set[row.ID] {
				continue
			}
			g.set[row.ID] = true
			added = append(added, row.ID)
		}
		if len(added) == 0 {
			continue
		}
		log.Printf("[reconcile] added to %s: %v", g.name, added)
		if err := store.WriteIDList(g.path, setToList(g.set)); err != nil {
			return err
		}
	}
	return nil
}

// ApplyStatuses removes ignored rooms outright, then marks favourites
// and messaged rooms. The two checks run unconditionally so a room in
// both sets ends up MESSAGED: favourited first, contacted later.
func (r *Reconciler) ApplyStatuses() {
	kept := r.Rooms[:0]
	for _, room := range r.Rooms {
		if !r.ignored[room.ID] {
			kept = append(kept, room)
		}
	}
	r.Rooms = kept

	for i := range r.Rooms {
		if r.favourites[r.Rooms[i].ID] {
			r.Rooms[i].Status = domain.StatusFavourite
		}
		if r.messaged[r.Rooms[i].ID] {
			r.Rooms[i].Status = domain.StatusMessaged
		}
	}
}

// CheckExpired re-resolves every stored listing through the shared
// page; a fetch error or a redirect away means the listing is gone and
// the record is dropped. Single-record failures never stop the sweep.
func (r *Reconciler) CheckExpired(ctx context.Context, fetcher scrape.PageFetcher) {
	kept := r.Rooms[:0]
	for i, room := range r.Rooms {
		_, finalURL, err := fetcher.FetchHTML(ctx, room.URL)
		if err != nil {
			log.Printf("[reconcile] failed to load %s: %v", room.URL, err)
			continue
		}
		if finalURL != room.URL {
			log.Printf("[reconcile] room %d/%d no longer found", i+1, len(r.Rooms))
			continue
		}
		kept = append(kept, room)
	}
	r.Rooms = kept
}

// FilterNew returns the candidate URLs worth fetching: identifier not
// in the store and not ignored. The sole dedup gate before the
// expensive per-record work.
func (r *Reconciler) FilterNew(urls []string) []string {
	existing := make(map[string]bool, len(r.Rooms))
	for _, room := range r.Rooms {
		existing[room.ID] = true
	}

	var out []string
	for _, u := range urls {
		id := domain.IDFromURL(u)
		if id == "" || existing[id] || r.ignored[id] {
			continue
		}
		out = append(out, u)
	}
	return out
}

// MergeNew appends a freshly built record if it passes the validity
// gate: a room bigger than a single, a resolved location, and
// whole-week availability.
func (r *Reconciler) MergeNew(room domain.Room) bool {
	if !room.HasNonSingleRoom() {
		log.Printf("[reconcile] skipping %s: room sizes %v", room.ID, room.RoomSizes)
		return false
	}
	if room.Location == "" {
		log.Printf("[reconcile] skipping %s: no location", room.ID)
		return false
	}
	if !room.AvailableAllWeek {
		log.Printf("[reconcile] skipping %s: not available all week", room.ID)
		return false
	}
	r.Rooms = append(r.Rooms, room)
	return true
}

// Persist writes the full store back. This is the only durable write of
// the record collection; a failure here is fatal to the run.
func (r *Reconciler) Persist(ctx context.Context) error {
	if err := r.db.ReplaceRooms(ctx, r.Rooms); err != nil {
		return err
	}
	log.Printf("[reconcile] store now has %d listings", len(r.Rooms))
	return nil
}

// Ignored reports whether an identifier is in the ignore set.
func (r *Reconciler) Ignored(id string) bool { return r.ignored[id] }

func matches(status string, keywords []string) bool {
	for _, kw := range keywords {
		if status == kw {
			return true
		}
	}
	return false
}

func setToList(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
