// Package archive persists batch export artifacts to a local directory or
// an S3-compatible bucket.
package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("archive object not found")

// ErrDisabled is returned when archiving is requested but no backend is configured
var ErrDisabled = errors.New("export archive is not configured")

// Store persists export artifacts by key
type Store interface {
	// Put writes data under key and returns where it was stored
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get reads the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys under prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// ExportKey names an export artifact: batch/<UTC timestamp>-<short id>.<ext>
func ExportKey(ext string, now time.Time) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("batch/%s-%s.%s", now.UTC().Format("20060102T150405Z"), id, ext)
}

// New creates a Store based on configuration. Type "none" (or empty)
// returns (nil, nil).
func New(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	switch utils.ArchiveType(strings.ToLower(cfg.Type)) {
	case "", utils.ArchiveTypeNone:
		return nil, nil

	case utils.ArchiveTypeLocal:
		return NewLocalStore(cfg.Dir)

	case utils.ArchiveTypeS3:
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})

	default:
		return nil, fmt.Errorf("unsupported archive type: %s (supported: none, local, s3)", cfg.Type)
	}
}
