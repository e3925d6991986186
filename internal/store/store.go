// Package store is the durable home of the interval log: one JSON
// document, replaced atomically on every save.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"flowtrack/internal/track"
)

type Store struct {
	path string
}

// New opens the store at the default location, creating the data
// directory if needed.
func New() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewAt(path)
}

// NewAt opens a store backed by the given file path.
func NewAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the persisted log. A missing file signals a fresh install
// and yields an empty log, not an error.
func (s *Store) Load() (track.Log, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return track.Log{}, nil
	}
	if err != nil {
		return track.Log{}, fmt.Errorf("read interval log: %w", err)
	}
	var log track.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return track.Log{}, fmt.Errorf("parse interval log: %w", err)
	}
	return log, nil
}

// Save writes the full serialized log to a temporary path and renames
// it over the canonical one, so a crash mid-write never leaves a torn
// file behind.
func (s *Store) Save(log track.Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode interval log: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write interval log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace interval log: %w", err)
	}
	return nil
}

// DefaultPath returns the interval log location under the user config
// directory.
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "flowtrack", "intervals.json"), nil
}
