// Package fsx abstracts the storage used for uploaded files.
package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a path has no file
var ErrNotExist = errors.New("fsx: file does not exist")

// FileReader reads stored files
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileWriter stores files
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
}

// FileSystem is a flat, slash-separated object store
type FileSystem interface {
	FileReader
	FileWriter

	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}
