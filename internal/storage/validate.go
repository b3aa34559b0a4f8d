package storage

import (
	"fmt"
	"strings"
)

// ValidateEntry checks that every field survives the line-oriented format.
// A line break in any field would shift every later line, an empty title
// reads back as end of data, and a field over MaxFieldSize fails to decode.
func ValidateEntry(e Entry) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidField)
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", e.Title},
		{"description", e.Description},
		{"date", e.Date},
	} {
		if strings.ContainsAny(f.value, "\r\n") {
			return fmt.Errorf("%w: %s contains a line break", ErrInvalidField, f.name)
		}
		if len(f.value) > MaxFieldSize {
			return fmt.Errorf("%w: %s longer than %d bytes", ErrInvalidField, f.name, MaxFieldSize)
		}
	}
	return nil
}

// Matches reports whether query is a literal, case-sensitive substring of
// the title, description or date.
func (e Entry) Matches(query string) bool {
	return strings.Contains(e.Title, query) ||
		strings.Contains(e.Description, query) ||
		strings.Contains(e.Date, query)
}
