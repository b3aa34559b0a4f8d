package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// MaxLineSize bounds a single line on disk, newline included.
const MaxLineSize = 1 << 20

// MaxFieldSize is the longest field Decode reads back.
const MaxFieldSize = MaxLineSize - 1

// Encode writes entries in the three-lines-per-entry format:
// title, description, date, each terminated by "\n".
func Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\n%s\n%s\n", e.Title, e.Description, e.Date); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Marshal returns the encoded form of entries.
func Marshal(entries []Entry) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, entries) // bytes.Buffer writes never fail
	return buf.Bytes()
}

// Decode reads entries written by Encode. Lines are taken three at a time;
// a short final group reads its missing fields as empty, and a group with
// an empty title is dropped so a trailing blank line never becomes an entry.
func Decode(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	var entries []Entry
	for {
		title, ok := next()
		if !ok {
			break
		}
		description, _ := next()
		date, _ := next()
		if title == "" {
			continue
		}
		entries = append(entries, Entry{Title: title, Description: description, Date: date})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}
