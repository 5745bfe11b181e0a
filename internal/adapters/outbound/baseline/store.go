// Package baseline persists drift reference profiles as JSON files.
package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a file-based baseline store.
func New() *Store { return &Store{} }

// Exists reports whether a baseline has been persisted at path.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the baseline profile from disk.
func (s *Store) Load(path string) (domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, &domain.StorageError{Op: "read", Path: path, Err: err}
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, &domain.StorageError{Op: "decode", Path: path, Err: err}
	}
	if p.Columns == nil {
		p.Columns = map[string]domain.ColumnStats{}
	}
	return p, nil
}

// Save writes the profile to disk, creating directories as needed.
// Callers only invoke this once per path: the baseline is frozen after
// creation.
func (s *Store) Save(path string, p domain.Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &domain.StorageError{Op: "mkdir", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode", Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &domain.StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}
