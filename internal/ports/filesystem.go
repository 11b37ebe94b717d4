// Package ports defines interfaces (contracts) for external dependencies.
// These enable dependency injection and testability via mock implementations.
package ports

import (
	"io"
	"os"
)

// FileSystem abstracts filesystem operations for testability.
// Production code uses OSFileSystem adapter; tests use MemFileSystem.
type FileSystem interface {
	// Stat returns file info for the named file, following symlinks.
	Stat(name string) (os.FileInfo, error)

	// MkdirAll creates a directory along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)

	// Walk walks the file tree rooted at root, calling fn for each file or directory.
	// Symlinks are reported as links and never descended into.
	Walk(root string, fn WalkFunc) error

	// Resolve returns the absolute form of path with symlinks evaluated.
	Resolve(path string) (string, error)
}

// WalkFunc is the type of function called by Walk.
type WalkFunc func(path string, info os.FileInfo, err error) error
