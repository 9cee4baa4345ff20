package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avetrovs/notesync/internal/flagx"
	"github.com/avetrovs/notesync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "5m" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config.
type JsonConfig struct {
	DatabasePath  string `json:"database_path"`
	RemoteBackend string `json:"remote_backend"`

	S3Endpoint    string `json:"s3_endpoint"`
	S3Region      string `json:"s3_region"`
	S3Bucket      string `json:"s3_bucket"`
	S3AccessKey   string `json:"s3_access_key"`
	S3SecretKey   string `json:"s3_secret_key"`
	S3SnapshotKey string `json:"s3_snapshot_key"`

	AutoSyncInterval timex.Duration `json:"auto_sync_interval"`
	RetentionDays    int            `json:"retention_days"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given, nothing is
// loaded. Keys absent from the file keep their current values. Panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RemoteBackend != "" {
		cfg.RemoteBackend = jc.RemoteBackend
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3SnapshotKey != "" {
		cfg.S3SnapshotKey = jc.S3SnapshotKey
	}
	if jc.AutoSyncInterval.Duration != 0 {
		cfg.AutoSyncInterval = time.Duration(jc.AutoSyncInterval.Duration)
	}
	if jc.RetentionDays != 0 {
		cfg.RetentionDays = jc.RetentionDays
	}
}
