package mocks

import (
	"os"
	"path/filepath"
	"sync"
)

// MockFileSystem is an in-memory stand-in for the atomic-write filesystem used by saves.
type MockFileSystem struct {
	Mu       sync.Mutex
	Files    map[string][]byte
	Dirs     map[string]bool
	OpErrors map[string]error
}

// NewMockFileSystem creates an empty filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:    map[string][]byte{},
		Dirs:     map[string]bool{},
		OpErrors: map[string]error{},
	}
}

// EnsureDirs records path as an existing directory.
func (f *MockFileSystem) EnsureDirs(path string) error {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	if err, ok := f.OpErrors["EnsureDirs"]; ok {
		return err
	}
	f.Dirs[filepath.Clean(path)] = true
	return nil
}

// WriteFileAtomic stores content at path. The parent must have been created with EnsureDirs.
func (f *MockFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	if err, ok := f.OpErrors["WriteFileAtomic"]; ok {
		return err
	}
	if !f.Dirs[filepath.Dir(filepath.Clean(path))] {
		return os.ErrNotExist
	}
	f.Files[filepath.Clean(path)] = append([]byte(nil), content...)
	return nil
}

// Abs resolves path against "/work".
func (f *MockFileSystem) Abs(path string) (string, error) {
	if err, ok := f.OpErrors["Abs"]; ok {
		return "", err
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join("/work", path), nil
}

// File returns the stored content at path.
func (f *MockFileSystem) File(path string) ([]byte, bool) {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	b, ok := f.Files[filepath.Clean(path)]
	return b, ok
}
