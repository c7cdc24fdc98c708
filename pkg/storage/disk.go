// Package storage is the file storage abstraction used for catalog images.
//
// Two drivers are available:
//   - "local": local filesystem, served by the HTTP kernel under /storage
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Paths are slash-separated and relative to the disk root, e.g.
// "products/3f2a….jpg". Models store paths; URL turns them into public links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrNotFound is returned by Get for a missing path.
var ErrNotFound = errors.New("storage: file not found")

// Disk is implemented by every driver.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get returns a reader for path. Caller must close it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}

// Open builds the disk named by STORAGE_DISK.
func Open(ctx context.Context) (Disk, error) {
	switch name := config.StorageDefault(); name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}

// DeleteAll removes every path, continuing past failures, and returns the
// first error. Empty paths are skipped.
func DeleteAll(ctx context.Context, d Disk, paths ...string) error {
	var first error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := d.Delete(ctx, p); err != nil && first == nil {
			first = err
		}
	}
	return first
}
