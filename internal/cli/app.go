// Package cli implements the interactive notesync shell: note CRUD,
// sync passes, conflict inspection and resolution, retention cleanup and
// encrypted export/import.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/avetrovs/notesync/internal/config"
	"github.com/avetrovs/notesync/internal/monitoring"
	"github.com/avetrovs/notesync/internal/repositories/metadata"
	"github.com/avetrovs/notesync/internal/repositories/remote"
	"github.com/avetrovs/notesync/internal/services"
	"github.com/avetrovs/notesync/internal/storage"
)

type App struct {
	config   *config.Config
	repos    *storage.Repositories
	remote   remote.Repository
	metadata *metadata.Store
	sync     *services.SyncService
	sweeper  *services.Sweeper
	monitor  monitoring.Monitor

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	monitor := monitoring.NewZapMonitor(logger)

	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	remoteRepo := repos.Remote
	if c.RemoteBackend == config.BackendS3 {
		remoteRepo, err = remote.NewS3Repository(ctx, remote.S3Config{
			Endpoint:    c.S3Endpoint,
			Region:      c.S3Region,
			Bucket:      c.S3Bucket,
			AccessKey:   c.S3AccessKey,
			SecretKey:   c.S3SecretKey,
			SnapshotKey: c.S3SnapshotKey,
		})
		if err != nil {
			_ = repos.DB.Close()
			return nil, fmt.Errorf("failed to init s3 remote: %w", err)
		}
	}

	store := metadata.NewStore(repos.Metadata)

	return &App{
		config:   c,
		repos:    repos,
		remote:   remoteRepo,
		metadata: store,
		sync:     services.NewSyncService(remoteRepo, repos.Conflicts, store, monitor),
		sweeper:  services.NewSweeper(repos.Notes, monitor, c.Retention()),
		monitor:  monitor,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}, nil
}

// Run starts the background auto-sync loop (when configured) and blocks in
// the interactive shell until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.repos.DB.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.AutoSyncInterval > 0 {
		go a.StartAutoSync(ctx, a.config.AutoSyncInterval)
	}

	a.Root(ctx)
}

// StartAutoSync runs a default-strategy sync pass on every tick until ctx
// is cancelled. A pass that overlaps a manual one is rejected by the sync
// service and silently skipped here.
func (a *App) StartAutoSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.runSyncPass(ctx, "", false)
		case <-ctx.Done():
			return
		}
	}
}
