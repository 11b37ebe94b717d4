package mocks

import (
	"github.com/mcdonaldj/archivedir/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// CreateCalls records calls to Create
	CreateCalls []CreateCall
	// ListResults maps zip paths to file listings
	ListResults map[string]map[string]ports.FileInfo
	// Errors maps method calls to errors
	Errors map[string]error
	// CreateResult is the default file count to return
	CreateResult int
}

// CreateCall records parameters of a Create call.
type CreateCall struct {
	DestPath  string
	SourceDir string
}

// NewMockArchiver creates a new mock archiver.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		ListResults:  make(map[string]map[string]ports.FileInfo),
		Errors:       make(map[string]error),
		CreateResult: 1, // Default to 1 file
	}
}

// Create records the call and returns CreateResult.
func (m *MockArchiver) Create(destPath, sourceDir string) (int, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{
		DestPath:  destPath,
		SourceDir: sourceDir,
	})
	if err, ok := m.Errors["Create"]; ok {
		return 0, err
	}
	return m.CreateResult, nil
}

// List returns the configured listing for zipPath.
func (m *MockArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}
	if result, ok := m.ListResults[zipPath]; ok {
		return result, nil
	}
	return make(map[string]ports.FileInfo), nil
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
