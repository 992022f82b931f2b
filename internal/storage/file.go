package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File implements Provider backed by a single local file.
type File struct {
	path string // absolute path to the catalog document
}

// NewFile creates a provider for the catalog file at path. The parent
// directory is created if necessary; the file itself may not exist yet
// (a fresh catalog has no prior data).
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create parent dir: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("storage: path is a directory: %s", abs)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute path of the backing file.
func (f *File) Path() string { return f.path }

// Read returns the raw bytes of the catalog document.
func (f *File) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, nil
}

// Write atomically replaces the document: tmp file → fsync → rename.
// A crash mid-write leaves the previous document intact.
func (f *File) Write(content []byte) error {
	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".kamado-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
