// Package testutil provides shared test helpers for setting up catalog stores.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/storage"
)

// TestLogger returns a logger that only surfaces errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestStore creates a loaded catalog store backed by a temp file that is
// cleaned up with the test. The returned path is the catalog file.
func TestStore(t *testing.T) (*catalog.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	file, err := storage.NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	store := catalog.NewStore(file, nil, TestLogger())
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, path
}
