package config

import (
	"flag"
	"os"

	"github.com/rsharma2005/civicbridge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string     data directory for the file-backed store
//	-dsn string   PostgreSQL DSN; switches the portal to the database store
//	-r            require an active session for resource creation
//	-a string     attachments directory
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-dsn", "-r", "-a"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for the local record store")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "PostgreSQL DSN (enables the database-backed store)")
	fs.BoolVar(&cfg.RequireAuthForResourceCreation, "r", cfg.RequireAuthForResourceCreation, "require login for resource creation")
	fs.StringVar(&cfg.AttachmentsDir, "a", cfg.AttachmentsDir, "directory for resource attachments")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
