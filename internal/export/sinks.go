package export

import (
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/domain"
)

// WriteAll renders the CSV and the map in parallel. The two sinks touch
// disjoint files, so one failing never corrupts the other.
func WriteAll(cfg config.Config, rooms []domain.Room) error {
	for _, p := range []string{cfg.App.OutputCSV, cfg.App.MapHTML} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		return WriteCSV(cfg.App.OutputCSV, rooms, cfg.Search.MinRent)
	})
	g.Go(func() error {
		return WriteMap(cfg.App.MapHTML, rooms, cfg.Map)
	})
	return g.Wait()
}
