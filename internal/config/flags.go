package config

import (
	"flag"
	"os"
	"time"

	"github.com/avetrovs/notesync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the local database file
//	-r string   remote backend, "sqlite" or "s3"
//	-b string   S3 bucket name
//	-i int      auto sync interval in seconds (0 disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-b", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.RemoteBackend, "r", cfg.RemoteBackend, "remote backend (sqlite or s3)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "s3 bucket name")
	autoSyncInterval := fs.Int("i", int(cfg.AutoSyncInterval.Seconds()), "auto sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutoSyncInterval = time.Duration(*autoSyncInterval) * time.Second
}
