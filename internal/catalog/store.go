// Package catalog owns the canonical catalog document: its load/save
// lifecycle, CRUD over records, and the best-effort remote mirror push.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/starford/kamado/internal/checksum"
	"github.com/starford/kamado/internal/mirror"
	"github.com/starford/kamado/internal/models"
	"github.com/starford/kamado/internal/schema"
	"github.com/starford/kamado/internal/storage"
)

// ChangeCallback is invoked after a successful local save or reload.
// kind is one of "record.created", "record.updated", "record.deleted",
// "folder.created", "catalog.reloaded". id is the affected record id,
// or empty for folder and catalog events.
type ChangeCallback func(kind, id string)

// Store is the single owner of the in-memory Document and its durable
// representation. The source behavior is single-writer; the mutex only
// serializes the concurrent HTTP handlers in front of it.
type Store struct {
	file   storage.Provider
	mirror mirror.Syncer // nil when remote mirroring is disabled
	logger *slog.Logger
	now    func() time.Time
	notify ChangeCallback

	mu      sync.Mutex
	doc     *models.Document
	sum     string // checksum of the last bytes loaded or written
	syncErr error  // outcome of the most recent mirror push
}

// NewStore creates a catalog store. m may be nil to disable mirroring.
func NewStore(file storage.Provider, m mirror.Syncer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		file:   file,
		mirror: m,
		logger: logger,
		now:    time.Now,
	}
}

// OnChange registers a callback for catalog change events. Must be set
// before the store is shared; it is not safe to swap concurrently.
func (s *Store) OnChange(cb ChangeCallback) {
	s.notify = cb
}

// Load reads the durable document. A missing file means a fresh catalog;
// a corrupt file is never fatal and is replaced with defaults. Any other
// read failure (permissions, I/O) is a hard error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.file.Read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.doc = models.NewDocument()
		s.sum = ""
		return nil
	case err != nil:
		return err
	}

	doc, err := schema.Decode(data)
	if err != nil {
		s.logger.Warn("catalog: corrupt document replaced with defaults",
			slog.String("path", s.file.Path()),
			slog.String("error", err.Error()))
		s.doc = models.NewDocument()
		s.sum = ""
		return nil
	}
	s.doc = doc
	s.sum = checksum.Sum(data)
	return nil
}

// Encode serializes a document in the canonical on-disk form: two-space
// indented UTF-8 JSON, stable key order, no escaping of non-ASCII text,
// trailing newline. The output is meant to be human-diffable.
func Encode(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("catalog: encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// save persists the current document locally and then pushes the same
// bytes to the remote mirror. The local write is the source of truth and
// must succeed; a mirror failure is recorded and logged as a warning but
// never propagated. Callers must hold s.mu.
func (s *Store) save(ctx context.Context) error {
	data, err := Encode(s.doc)
	if err != nil {
		return err
	}
	if err := s.file.Write(data); err != nil {
		return err
	}
	s.sum = checksum.Sum(data)

	if s.mirror != nil {
		if err := s.mirror.Push(ctx, data); err != nil {
			s.syncErr = err
			s.logger.Warn("catalog: remote mirror sync failed",
				slog.String("error", err.Error()))
		} else {
			s.syncErr = nil
		}
	}
	return nil
}

// SyncNow pushes the current document to the remote mirror and returns
// the outcome, for explicit recovery after a reported sync warning.
func (s *Store) SyncNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mirror == nil {
		return fmt.Errorf("catalog: remote mirror is not configured")
	}
	data, err := Encode(s.doc)
	if err != nil {
		return err
	}
	err = s.mirror.Push(ctx, data)
	s.syncErr = err
	return err
}

// LastSyncError returns the outcome of the most recent mirror push, or
// nil when it succeeded or never ran.
func (s *Store) LastSyncError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncErr
}

// ReloadIfChanged re-reads the durable document when its content differs
// from what the store last saw (an external process rewrote the file).
// A document that fails to decode is left alone: replacing live user data
// because another writer left a torn file would lose it.
func (s *Store) ReloadIfChanged() (bool, error) {
	s.mu.Lock()

	data, err := s.file.Read()
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if checksum.Sum(data) == s.sum {
		s.mu.Unlock()
		return false, nil
	}

	doc, err := schema.Decode(data)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("catalog: external change not loadable, keeping in-memory document",
			slog.String("error", err.Error()))
		return false, nil
	}
	s.doc = doc
	s.sum = checksum.Sum(data)
	s.mu.Unlock()

	s.emit("catalog.reloaded", "")
	return true, nil
}

func (s *Store) emit(kind, id string) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}
