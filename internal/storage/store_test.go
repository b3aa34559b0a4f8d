package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igm/organizer/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

var sample = []Entry{
	{Title: "Meeting", Description: "Team sync", Date: "01/01/2024"},
	{Title: "Gym", Description: "Leg day", Date: "02/01/2024"},
	{Title: "Dentist", Description: "Checkup", Date: "03/01/2024"},
}

func newStore(t *testing.T, entries ...Entry) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "organizer_data.txt"))
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Add(e.Title, e.Description, e.Date))
	}
	return s
}

func reopen(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestOpenMissingFile(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, 0, s.Len())

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "opening must not create the backing file")
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	long := strings.Repeat("x", MaxLineSize+1)
	require.NoError(t, os.WriteFile(path, []byte("ok\ndesc\ndate\n"+long+"\n"), 0644))

	s := reopen(t, path)
	assert.Equal(t, 0, s.Len())
}

func TestOpenUnreadablePath(t *testing.T) {
	// a directory cannot be decoded as a backing file
	s := reopen(t, t.TempDir())
	assert.Equal(t, 0, s.Len())
}

func TestAddPersistsAndRoundTrips(t *testing.T) {
	s := newStore(t, sample...)
	require.Equal(t, len(sample), s.Len())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(Marshal(sample)), string(data))

	reloaded := reopen(t, s.Path())
	if diff := cmp.Diff(sample, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRejectsLineBreaks(t *testing.T) {
	s := newStore(t, sample[0])

	for _, tc := range []struct {
		name                     string
		title, description, date string
	}{
		{"newline in title", "a\nb", "d", "x"},
		{"newline in description", "t", "line1\nline2", "x"},
		{"carriage return in date", "t", "d", "01/01\r2024"},
		{"empty title", "", "d", "x"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Add(tc.title, tc.description, tc.date)
			assert.ErrorIs(t, err, ErrInvalidField)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestFieldSizeLimit(t *testing.T) {
	s := newStore(t, sample[:2]...)
	long := strings.Repeat("x", MaxFieldSize+1)

	assert.ErrorIs(t, s.Add("Notes", long, ""), ErrInvalidField)
	assert.ErrorIs(t, s.EditAt(0, long, "", ""), ErrInvalidField)
	assert.Equal(t, sample[:2], s.Entries())
	assert.Equal(t, sample[:2], reopen(t, s.Path()).Entries())

	// the longest accepted field still reads back
	longest := strings.Repeat("x", MaxFieldSize)
	require.NoError(t, s.Add("Notes", longest, ""))
	reloaded := reopen(t, s.Path())
	require.Equal(t, 3, reloaded.Len())
	assert.Equal(t, longest, reloaded.Entries()[2].Description)
}

func TestRemoveAtShiftsLaterEntries(t *testing.T) {
	for i := range sample {
		s := newStore(t, sample...)

		require.NoError(t, s.RemoveAt(i))
		require.Equal(t, len(sample)-1, s.Len())

		got := s.Entries()
		for j := 0; j < i; j++ {
			assert.Equal(t, sample[j], got[j], "entry before removed index changed")
		}
		for j := i + 1; j < len(sample); j++ {
			assert.Equal(t, sample[j], got[j-1], "entry after removed index not shifted")
		}

		if diff := cmp.Diff(got, reopen(t, s.Path()).Entries()); diff != "" {
			t.Errorf("backing file out of sync after RemoveAt(%d):\n%s", i, diff)
		}
	}
}

func TestInvalidIndexLeavesStoreUnchanged(t *testing.T) {
	s := newStore(t, sample...)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	for _, idx := range []int{-1, -100, len(sample), len(sample) + 5} {
		assert.False(t, s.IsValidIndex(idx))
		assert.ErrorIs(t, s.RemoveAt(idx), ErrIndexOutOfRange)
		assert.ErrorIs(t, s.EditAt(idx, "x", "y", "z"), ErrIndexOutOfRange)
	}

	assert.Equal(t, sample, s.Entries())
	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditAt(t *testing.T) {
	s := newStore(t, sample...)

	require.NoError(t, s.EditAt(1, "Run", "5k", "04/01/2024"))

	want := []Entry{sample[0], {Title: "Run", Description: "5k", Date: "04/01/2024"}, sample[2]}
	assert.Equal(t, want, s.Entries())
	assert.Equal(t, want, reopen(t, s.Path()).Entries())

	err := s.EditAt(0, "bad\ntitle", "", "")
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, want, s.Entries())
}

func TestClear(t *testing.T) {
	s := newStore(t, sample...)

	require.NoError(t, s.Clear())

	_, err := s.List()
	assert.ErrorIs(t, err, ErrEmpty)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, 0, reopen(t, s.Path()).Len())
}

func TestList(t *testing.T) {
	s := newStore(t)
	_, err := s.List()
	assert.ErrorIs(t, err, ErrEmpty)

	s = newStore(t, sample...)
	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, len(sample))
	for i, ie := range got {
		assert.Equal(t, i, ie.Index)
		assert.Equal(t, sample[i], ie.Entry)
	}
}

func TestSearch(t *testing.T) {
	s := newStore(t, sample[0], sample[1])

	got, err := s.Search("day")
	require.NoError(t, err)
	assert.Equal(t, []Indexed{{Index: 1, Entry: sample[1]}}, got)

	got, err = s.Search("01/2024")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.Search("DAY")
	assert.ErrorIs(t, err, ErrNoMatches, "search is case-sensitive")

	_, err = s.Search("nothing here")
	assert.ErrorIs(t, err, ErrNoMatches)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = newStore(t).Search("day")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestExportTo(t *testing.T) {
	s := newStore(t, sample...)
	backing, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, s.ExportTo(dest))

	exported := reopen(t, dest)
	if diff := cmp.Diff(s.Entries(), exported.Entries()); diff != "" {
		t.Errorf("exported entries mismatch:\n%s", diff)
	}
	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, backing, after, "export must not touch the backing file")
}

func TestExportToUnwritableDestination(t *testing.T) {
	s := newStore(t, sample...)

	err := s.ExportTo(filepath.Join(t.TempDir(), "missing", "export.txt"))
	assert.Error(t, err)
	assert.Equal(t, sample, s.Entries())
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	s := reopen(t, filepath.Join(blocker, "data.txt"))

	err := s.Add("Meeting", "Team sync", "01/01/2024")
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 1, s.Len(), "in-memory add is not rolled back")

	err = s.Clear()
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 0, s.Len())
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	s := newStore(t, sample...)
	require.NoError(t, s.RemoveAt(0))

	files, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Base(s.Path()), files[0].Name())
}
