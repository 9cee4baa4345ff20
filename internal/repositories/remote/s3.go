package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sethvargo/go-retry"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/models"
)

const defaultSnapshotKey = "snapshots/notes.json"

// S3Config holds the settings for an S3-compatible remote replica
// (AWS S3, MinIO, R2). Endpoint may be empty for real AWS.
type S3Config struct {
	Endpoint    string
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	SnapshotKey string
}

// s3API is the slice of the S3 client the repository uses; *s3.Client
// satisfies it and tests substitute a fake.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Repository keeps the whole remote snapshot as a single JSON object.
// Every mutation is a read-modify-write of that object, which preserves the
// engine's "one serializable whole" discipline; the last put wins at the
// storage layer. Transient request failures are retried with capped
// exponential backoff.
type S3Repository struct {
	api    s3API
	bucket string
	key    string
}

// NewS3Repository builds the S3 client from static credentials and an
// optional custom endpoint (path-style, MinIO compatible).
func NewS3Repository(ctx context.Context, c S3Config) (*S3Repository, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey, c.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Repository(client, c), nil
}

func newS3Repository(api s3API, c S3Config) *S3Repository {
	key := c.SnapshotKey
	if key == "" {
		key = defaultSnapshotKey
	}
	return &S3Repository{api: api, bucket: c.Bucket, key: key}
}

func (r *S3Repository) backoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
}

// Get returns a single note from the snapshot object.
func (r *S3Repository) Get(ctx context.Context, id string) (*models.Note, error) {
	snapshot, err := r.getSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot {
		if snapshot[i].ID == id {
			return &snapshot[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// GetAll downloads and decodes the snapshot object. A missing object is an
// empty snapshot, not an error.
func (r *S3Repository) GetAll(ctx context.Context) ([]models.Note, error) {
	return r.getSnapshot(ctx)
}

// Put upserts one note via read-modify-write of the snapshot object.
func (r *S3Repository) Put(ctx context.Context, n *models.Note) error {
	snapshot, err := r.getSnapshot(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range snapshot {
		if snapshot[i].ID == n.ID {
			snapshot[i] = *n
			replaced = true
			break
		}
	}
	if !replaced {
		snapshot = append(snapshot, *n)
	}
	return r.putSnapshot(ctx, snapshot)
}

// ReplaceAll uploads the new snapshot in a single object put.
func (r *S3Repository) ReplaceAll(ctx context.Context, snapshot []models.Note) error {
	return r.putSnapshot(ctx, snapshot)
}

// Delete removes one note from the snapshot; absent ids are ignored.
func (r *S3Repository) Delete(ctx context.Context, id string) error {
	snapshot, err := r.getSnapshot(ctx)
	if err != nil {
		return err
	}
	kept := snapshot[:0]
	for i := range snapshot {
		if snapshot[i].ID != id {
			kept = append(kept, snapshot[i])
		}
	}
	return r.putSnapshot(ctx, kept)
}

// Clear replaces the snapshot with an empty one.
func (r *S3Repository) Clear(ctx context.Context) error {
	return r.putSnapshot(ctx, nil)
}

func (r *S3Repository) getSnapshot(ctx context.Context) ([]models.Note, error) {
	var body []byte

	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(r.key),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				body = nil
				return nil
			}
			return retry.RetryableError(err)
		}
		defer out.Body.Close()

		body, err = io.ReadAll(out.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download remote snapshot: %w", err)
	}

	if len(body) == 0 {
		return nil, nil
	}

	var snapshot []models.Note
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode remote snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *S3Repository) putSnapshot(ctx context.Context, snapshot []models.Note) error {
	if snapshot == nil {
		snapshot = []models.Note{}
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode remote snapshot: %w", err)
	}

	err = retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		_, err := r.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(r.key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upload remote snapshot: %w", err)
	}
	return nil
}
