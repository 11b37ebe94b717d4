// Package osfs provides a filesystem adapter backed by afero's OS filesystem.
package osfs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcdonaldj/archivedir/internal/ports"
)

// OSFileSystem implements ports.FileSystem on top of the host filesystem.
type OSFileSystem struct {
	fs afero.Fs
}

// New creates a new OSFileSystem adapter.
func New() *OSFileSystem {
	return &OSFileSystem{fs: afero.NewOsFs()}
}

// Stat returns file info for the named file, following symlinks.
func (f *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return f.fs.Stat(name)
}

// MkdirAll creates a directory along with any necessary parents.
func (f *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

// Open opens the named file for reading.
func (f *OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return f.fs.Open(name)
}

// Create creates or truncates the named file.
func (f *OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return f.fs.Create(name)
}

// Walk walks the file tree rooted at root in lexical order.
// Entries are reported with Lstat info, so symlinked directories are not descended.
func (f *OSFileSystem) Walk(root string, fn ports.WalkFunc) error {
	return afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// Resolve returns the absolute form of path with symlinks evaluated.
func (f *OSFileSystem) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Compile-time check that OSFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*OSFileSystem)(nil)
