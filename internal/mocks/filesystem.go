// Package mocks provides mock implementations for testing.
package mocks

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcdonaldj/archivedir/internal/ports"
)

// MemFileSystem implements ports.FileSystem over an in-memory afero filesystem.
type MemFileSystem struct {
	// Fs holds the files; tests may seed it directly.
	Fs afero.Fs
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error
}

// NewMemFileSystem creates a new empty in-memory filesystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		Fs:     afero.NewMemMapFs(),
		Errors: make(map[string]error),
	}
}

// WriteFile writes data to name, creating parent directories as needed.
func (m *MemFileSystem) WriteFile(name string, data []byte) error {
	if err := m.Fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(m.Fs, name, data, 0o644)
}

// ReadFile reads the named file and returns the contents.
func (m *MemFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(m.Fs, name)
}

// Exists reports whether name is present.
func (m *MemFileSystem) Exists(name string) bool {
	ok, _ := afero.Exists(m.Fs, name)
	return ok
}

// Stat returns file info for the named file.
func (m *MemFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	return m.Fs.Stat(name)
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MemFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	return m.Fs.MkdirAll(path, perm)
}

// Open opens the named file for reading.
func (m *MemFileSystem) Open(name string) (io.ReadCloser, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	return m.Fs.Open(name)
}

// Create creates or truncates the named file.
func (m *MemFileSystem) Create(name string) (io.WriteCloser, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	return m.Fs.Create(name)
}

// Walk walks the file tree rooted at root in lexical order.
func (m *MemFileSystem) Walk(root string, fn ports.WalkFunc) error {
	return afero.Walk(m.Fs, root, func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// Resolve returns the cleaned absolute path. The memory filesystem has no symlinks.
func (m *MemFileSystem) Resolve(path string) (string, error) {
	if err, ok := m.Errors[path]; ok {
		return "", err
	}
	return filepath.Abs(path)
}

// Compile-time check that MemFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MemFileSystem)(nil)
