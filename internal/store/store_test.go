package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

func TestStore_Load_AbsentFileYieldsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "highlights.json"))

	highlights, err := s.Load()

	require.NoError(t, err)
	assert.Empty(t, highlights)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data", "highlights.json"))

	saved := []entities.Highlight{
		{
			Title:    "Deep Work",
			Author:   "Cal Newport",
			Text:     "Focus is the new IQ.",
			Location: "812-815",
			Page:     "42",
			AddedAt:  "2024-01-02T08:00:00Z",
			Theme:    "Productivity",
		},
		{
			Title:  "Untitled Notes",
			Author: entities.DefaultAuthor,
			Text:   "A note without location or page.",
		},
	}

	require.NoError(t, s.Save(saved))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestStore_Load_CorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highlights.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := New(path).Load()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStore_Save_OverwritesFullSequence(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "highlights.json"))

	require.NoError(t, s.Save([]entities.Highlight{
		{Title: "A", Author: "X", Text: "one"},
		{Title: "B", Author: "Y", Text: "two"},
	}))
	require.NoError(t, s.Save([]entities.Highlight{
		{Title: "A", Author: "X", Text: "one"},
	}))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_Save_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "highlights.json"))

	require.NoError(t, s.Save([]entities.Highlight{{Title: "A", Author: "X", Text: "one"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "highlights.json", entries[0].Name())
}
