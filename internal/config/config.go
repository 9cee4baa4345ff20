package config

import "time"

// Backend names for the remote replica store.
const (
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config holds runtime settings for the notesync CLI.
//
// Fields:
//   - DatabasePath: path to the local SQLite database file.
//   - RemoteBackend: which remote replica store to use, "sqlite" or "s3".
//   - S3*: object store settings, only used when RemoteBackend is "s3".
//   - AutoSyncInterval: how often the background sync pass runs; zero
//     disables background sync.
//   - RetentionDays: how long soft-deleted notes survive before the
//     cleanup sweep purges them.
type Config struct {
	DatabasePath  string
	RemoteBackend string

	S3Endpoint    string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3SnapshotKey string

	AutoSyncInterval time.Duration
	RetentionDays    int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "notesync.db"
	c.RemoteBackend = BackendSQLite
	c.S3Region = "us-east-1"
	c.AutoSyncInterval = 0
	c.RetentionDays = 30
}

// Retention converts RetentionDays into a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
