package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/igm/organizer/internal/logger"
)

// Store keeps an ordered list of entries and rewrites its backing file
// after every mutation.
type Store struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
	log     *slog.Logger
}

var _ EntryStore = (*Store)(nil)

// Open creates a store backed by path and loads any entries already there.
// A missing, unreadable or malformed file leaves the store empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	s := &Store{
		path: path,
		log:  logger.Component("storage").With("path", path),
	}
	s.entries = s.load()
	return s, nil
}

func (s *Store) load() []Entry {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("backing file not found, starting empty")
		} else {
			s.log.Warn("backing file unreadable, starting empty", "error", err)
		}
		return nil
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		s.log.Warn("backing file malformed, starting empty", "error", err)
		return nil
	}

	s.log.Debug("entries loaded", "count", len(entries))
	return entries
}

// persistLocked rewrites the backing file. Callers hold s.mu.
func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.log.Error("persist failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := WriteFileAtomic(s.path, Marshal(s.entries), 0644); err != nil {
		s.log.Error("persist failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.log.Debug("entries saved", "count", len(s.entries))
	return nil
}

func (s *Store) validIndexLocked(index int) bool {
	return index >= 0 && index < len(s.entries)
}

func (s *Store) indexError(index int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.entries))
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsValidIndex reports whether 0 <= index < Len()
func (s *Store) IsValidIndex(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validIndexLocked(index)
}

// Entries returns a copy of all entries in order
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Add appends an entry and persists
func (s *Store) Add(title, description, date string) error {
	e := Entry{Title: title, Description: description, Date: date}
	if err := ValidateEntry(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	s.log.Info("entry added", "index", len(s.entries)-1)
	return s.persistLocked()
}

// RemoveAt deletes the entry at index, shifting later entries down, and persists
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validIndexLocked(index) {
		return s.indexError(index)
	}

	s.entries = slices.Delete(s.entries, index, index+1)
	s.log.Info("entry removed", "index", index)
	return s.persistLocked()
}

// EditAt replaces all three fields of the entry at index and persists
func (s *Store) EditAt(index int, title, description, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validIndexLocked(index) {
		return s.indexError(index)
	}

	e := Entry{Title: title, Description: description, Date: date}
	if err := ValidateEntry(e); err != nil {
		return err
	}

	s.entries[index] = e
	s.log.Info("entry edited", "index", index)
	return s.persistLocked()
}

// Clear removes every entry and persists an empty file
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.log.Info("entries cleared")
	return s.persistLocked()
}

// List returns every entry with its index. An empty store returns ErrEmpty.
func (s *Store) List() ([]Indexed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, ErrEmpty
	}

	out := make([]Indexed, len(s.entries))
	for i, e := range s.entries {
		out[i] = Indexed{Index: i, Entry: e}
	}
	return out, nil
}

// Search returns entries whose title, description or date contains query,
// keeping their original indices. It returns ErrEmpty for an empty store and
// ErrNoMatches when nothing matched.
func (s *Store) Search(query string) ([]Indexed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, ErrEmpty
	}

	var out []Indexed
	for i, e := range s.entries {
		if e.Matches(query) {
			out = append(out, Indexed{Index: i, Entry: e})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatches
	}
	return out, nil
}

// ExportTo writes the entries to path in the backing file format.
// The backing file is not touched.
func (s *Store) ExportTo(path string) error {
	s.mu.RLock()
	data := Marshal(s.entries)
	count := len(s.entries)
	s.mu.RUnlock()

	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("exporting entries: %w", err)
	}

	s.log.Info("entries exported", "to", path, "count", count)
	return nil
}
