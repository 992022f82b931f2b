package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempFile(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func TestWriteAndRead(t *testing.T) {
	f := tempFile(t)
	content := []byte(`{"folders":["和食"],"records":[]}`)
	if err := f.Write(content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := f.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	f := tempFile(t)
	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error reading missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestWriteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "catalog.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Write([]byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	f := tempFile(t)
	_ = f.Write([]byte("first"))
	if err := f.Write([]byte("second")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := f.Read()
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	f := tempFile(t)
	if err := f.Write([]byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(f.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".kamado-tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestNewFileRejectsDirectory(t *testing.T) {
	if _, err := NewFile(t.TempDir()); err == nil {
		t.Error("expected error for directory path")
	}
}
