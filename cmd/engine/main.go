package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"roomhunt-engine/internal/commute"
	"roomhunt-engine/internal/config"
	"roomhunt-engine/internal/export"
	"roomhunt-engine/internal/pipeline"
	"roomhunt-engine/internal/scrape/browser"
	"roomhunt-engine/internal/secrets"
	"roomhunt-engine/internal/store"
)

func main() {
	// .env is optional; the keychain is the preferred credential source.
	_ = godotenv.Load()

	dataDir := os.Getenv("ROOMHUNT_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg.App.DataDir = dataDir

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("config: %s", w)
	}
	if !v.OK() {
		for _, e := range v.Errors {
			log.Printf("config: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	// One engine per data dir. A second instance would race the store
	// and the id lists.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal(err)
	}
	if !locked {
		log.Fatalf("another engine is already running against %s", dataDir)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(filepath.Join(dataDir, "rooms.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	svc := commute.New(secrets.RoutesAPIKey())
	if svc == nil {
		log.Printf("no routes api key, commute lookups disabled")
	}

	session, err := browser.NewSession(ctx, cfg.Search.Domain, cfg.Search.Headless)
	if err != nil {
		log.Fatalf("browser start failed: %v", err)
	}
	defer session.Close()

	rooms, err := pipeline.Run(ctx, pipeline.Deps{
		Cfg:     cfg,
		DB:      db,
		Source:  session,
		Fetcher: session,
		Commute: svc,
		Dest1:   commute.DestinationFromEnv("DEST1_LAT", "DEST1_LON"),
		Dest2:   commute.DestinationFromEnv("DEST2_LAT", "DEST2_LON"),
	})
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if err := export.WriteAll(cfg, rooms); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("done: %d rooms", len(rooms))
}
