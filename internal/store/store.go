// Package store persists the merged highlight sequence as a JSON document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

// ErrCorrupt indicates the store file exists but cannot be decoded. It is
// deliberately fatal: treating a corrupt store as empty would destroy the
// prior highlights on the next save.
var ErrCorrupt = errors.New("highlight store is corrupt")

// Store is a JSON-file-backed highlight store. The whole sequence is read
// and rewritten on every cycle; there is no incremental update.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads all highlights. An absent file yields an empty sequence.
func (s *Store) Load() ([]entities.Highlight, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Highlight{}, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	var highlights []entities.Highlight
	if err := json.Unmarshal(raw, &highlights); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	return highlights, nil
}

// Save rewrites the full sequence. The document is written to a temp file
// and renamed into place so a failed write leaves the previous store intact.
func (s *Store) Save(highlights []entities.Highlight) error {
	data, err := json.MarshalIndent(highlights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode highlights: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".highlights-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}

	return nil
}
