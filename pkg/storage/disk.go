// Package storage is a filesystem abstraction with a local driver and an
// S3-compatible driver. Paths are slash separated and relative to the disk
// root ("images/3.jpeg").
//
//	storage.Connect()
//	storage.Default().Put(ctx, "images/3.jpeg", data)
//	url := storage.Default().URL("images/3.jpeg")
package storage

import (
	"context"
	"io"
)

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	// PutStream writes everything read from r to path.
	PutStream(ctx context.Context, path string, r io.Reader) error

	// Get returns the content of path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists the files directly inside directory, as disk-relative paths.
	// A missing directory yields an empty list.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL of path.
	URL(path string) string
}
