package fsutil

import (
	"os"
	"path/filepath"
)

// OSFileSystem writes drawing files to the local filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// EnsureDirs creates a directory and its parents if they don't exist.
func (fs *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Abs resolves path against the working directory.
func (fs *OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// WriteFileAtomic writes content through a temp file in the target directory and renames
// it into place, so a reader never sees a half-written drawing.
func (fs *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &TempFileError{Dir: dir, Cause: err}
	}
	tmpPath := tmpFile.Name()
	needsCleanup := true

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if needsCleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return &WriteError{Path: tmpPath, Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		return &WriteError{Path: tmpPath, Cause: err}
	}
	// Close before rename (required on some systems)
	if err := tmpFile.Close(); err != nil {
		tmpFile = nil
		return &WriteError{Path: tmpPath, Cause: err}
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, path); err != nil {
		return &RenameError{Old: tmpPath, New: path, Cause: err}
	}
	needsCleanup = false

	return os.Chmod(path, perm)
}
