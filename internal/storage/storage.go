package storage

import "errors"

var (
	// ErrIndexOutOfRange indicates an index outside [0, Len())
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidField indicates a field value the line format cannot hold
	ErrInvalidField = errors.New("invalid field")

	// ErrPersist indicates the backing file could not be rewritten.
	// The in-memory change that triggered the write is kept.
	ErrPersist = errors.New("persisting entries")

	// ErrEmpty reports a store with no entries. Informational, not a failure.
	ErrEmpty = errors.New("no entries")

	// ErrNoMatches reports a search over a non-empty store that found nothing.
	ErrNoMatches = errors.New("no entries matched")

	// ErrEmptyPath indicates a store was opened without a backing file path
	ErrEmptyPath = errors.New("empty backing file path")
)

// Entry is one organizer record
type Entry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"` // free-form, never parsed
}

// Indexed pairs an entry with its current position in the store
type Indexed struct {
	Index int
	Entry Entry
}

// EntryStore defines the operations front ends use.
// Positions are the only identity an entry has: removing an entry shifts
// every later index down by one.
type EntryStore interface {
	Add(title, description, date string) error
	RemoveAt(index int) error
	EditAt(index int, title, description, date string) error
	Clear() error

	List() ([]Indexed, error)
	Search(query string) ([]Indexed, error)
	ExportTo(path string) error

	IsValidIndex(index int) bool
	Len() int
	Entries() []Entry
}
