package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys shared by the settings surface, the widgets and the AI core.
const (
	KeyAIConfig     = "ai.config"
	KeyActiveLayout = "layout.active"
	KeyTasks        = "widget.tasks"
	KeyQuickLinks   = "widget.quicklinks"
	KeyNotes        = "widget.notes"
	KeyRSS          = "widget.rss"
)

// Store is the shared key-value persistence layer. Values are stored as a
// single JSON object on disk, one entry per key. All mutation goes through
// atomic per-key read-modify-write; concurrent writers from different
// surfaces are last-write-wins at the key level.
type Store struct {
	path  string
	mutex sync.Mutex
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the store file path under the user's home directory
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nexustab", "store.json"), nil
}

// Path returns the store's backing file path
func (s *Store) Path() string {
	return s.path
}

// Get reads the value stored under key into out. It returns false if the
// key is absent; out is left untouched in that case.
func (s *Store) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.readAll()
	if err != nil {
		return false, err
	}

	raw, ok := entries[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode value for %s: %w", key, err)
	}

	return true, nil
}

// Set writes value under key, leaving sibling keys untouched
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.readAll()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}

	entries[key] = raw
	return s.writeAll(entries)
}

// Update performs an atomic read-modify-write on a single key. The update
// function receives the stored raw value (nil if absent) and returns the
// value to store.
func (s *Store) Update(ctx context.Context, key string, update func(raw json.RawMessage) (interface{}, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.readAll()
	if err != nil {
		return err
	}

	next, err := update(entries[key])
	if err != nil {
		return err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}

	entries[key] = raw
	return s.writeAll(entries)
}

// readAll loads the full key-value map from disk. A missing file is an
// empty store, not an error.
func (s *Store) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	entries := make(map[string]json.RawMessage)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse store file: %w", err)
		}
	}

	return entries, nil
}

// writeAll persists the full key-value map to disk
func (s *Store) writeAll(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
