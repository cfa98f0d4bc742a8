// Command migrate copies all portal records from the file-backed local store
// into a PostgreSQL database. Run it once when moving an installation off the
// local store; re-running it is safe, existing rows are left untouched.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/rsharma2005/civicbridge/internal/buildinfo"
	"github.com/rsharma2005/civicbridge/internal/kv"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/portal/config"
	"github.com/rsharma2005/civicbridge/internal/store/local"
	"github.com/rsharma2005/civicbridge/internal/store/postgres"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if cfg.DatabaseDSN == "" {
		log.Fatal("a database DSN is required (-dsn flag or DatabaseDSN in the config file)")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	fileKV, err := kv.NewFileKV(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir init error: %v", err)
	}
	src, err := local.New(fileKV, local.Config{}, logger)
	if err != nil {
		log.Fatalf("local store init error: %v", err)
	}

	snap, err := src.Export(ctx)
	if err != nil {
		log.Fatalf("export error: %v", err)
	}

	dst, err := postgres.Open(ctx, cfg.DatabaseDSN, postgres.Config{
		RequireAuthForResourceCreation: cfg.RequireAuthForResourceCreation,
	}, logger)
	if err != nil {
		log.Fatalf("database store init error: %v", err)
	}

	if err := dst.ImportSnapshot(ctx, snap); err != nil {
		log.Fatalf("import error: %v", err)
	}

	log.Printf("migrated %d users, %d projects, %d resources from %s",
		len(snap.Users), len(snap.Projects), len(snap.Resources), cfg.DataDir)
}
