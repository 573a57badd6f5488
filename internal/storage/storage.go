// Package storage persists uploaded image files on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"socialnet/internal/config"
)

// Upload directories.
const (
	DirUsers        = "users"
	DirPublications = "publications"
)

var (
	// ErrNotFound is returned by Open when the file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that are not plain file names.
	ErrInvalidName = errors.New("invalid file name")
)

// FileStore saves, opens and removes uploaded files addressed by directory and name.
type FileStore interface {
	Save(ctx context.Context, dir, name string, r io.Reader) error
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, dir, name string) error
}

// New builds the FileStore selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case config.StorageLocal, "":
		return NewLocal(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// ValidateName accepts only plain file names: no separators, no parent references.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") ||
		filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}

func validateDir(dir string) error {
	switch dir {
	case DirUsers, DirPublications:
		return nil
	default:
		return fmt.Errorf("unknown upload directory %q", dir)
	}
}
