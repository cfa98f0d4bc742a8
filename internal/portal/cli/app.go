// Package cli implements the interactive portal shell: registration and
// login, project and resource listings, record creation, and snapshot
// export, all driven through the record store.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rsharma2005/civicbridge/internal/blob"
	"github.com/rsharma2005/civicbridge/internal/kv"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/portal/config"
	"github.com/rsharma2005/civicbridge/internal/store"
	"github.com/rsharma2005/civicbridge/internal/store/local"
	"github.com/rsharma2005/civicbridge/internal/store/postgres"
)

type App struct {
	config    *config.Config
	store     store.Store
	blobs     blob.Store
	logger    logging.Logger
	userEmail string
	reader    *bufio.Reader
}

// NewApp wires a store and an attachment backend from config. With a
// database DSN configured the portal runs against PostgreSQL; otherwise it
// uses the file-backed local store under the data directory.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var recordStore store.Store
	if c.DatabaseDSN != "" {
		s, err := postgres.Open(ctx, c.DatabaseDSN, postgres.Config{
			RequireAuthForResourceCreation: c.RequireAuthForResourceCreation,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("database store init error: %w", err)
		}
		recordStore = s
	} else {
		fileKV, err := kv.NewFileKV(c.DataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir init error: %w", err)
		}
		s, err := local.New(fileKV, local.Config{
			RequireAuthForResourceCreation: c.RequireAuthForResourceCreation,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("local store init error: %w", err)
		}
		recordStore = s
	}

	var blobs blob.Store
	if c.S3Enabled {
		blobs = blob.NewS3Store(blob.S3Config{
			Endpoint:        c.S3Endpoint,
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		})
	} else {
		fsBlobs, err := blob.NewFSStore(c.AttachmentsDir)
		if err != nil {
			return nil, fmt.Errorf("attachments init error: %w", err)
		}
		blobs = fsBlobs
	}

	app := &App{
		config: c,
		store:  recordStore,
		blobs:  blobs,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
	}

	// a session persisted by a previous run stays active
	if session, err := recordStore.CurrentUser(ctx); err == nil && session != nil {
		app.userEmail = session.Email
	}

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

func (a *App) getStatus() string {
	if a.userEmail == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userEmail)
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the civicbridge portal (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
