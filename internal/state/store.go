package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Store is a small group/key string store persisted as YAML.
//
// Every mutation rewrites the file atomically. Reads are served from the
// copy loaded on first access.
type Store struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]map[string]string
}

// DefaultPath returns $XDG_STATE_HOME/sidedock/state.yaml, creating the
// parent directory.
func DefaultPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("sidedock", "state.yaml"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve state file: %w", err)
	}
	return path, nil
}

// NewStore returns a store backed by path. The file is read lazily.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for group/key. ok is false when the key is unset.
func (s *Store) Get(group, key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", false, err
	}
	value, ok = s.data[group][key]
	return value, ok, nil
}

// Set stores value under group/key.
func (s *Store) Set(group, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		// A corrupt file must not block writing fresh state.
		s.data = make(map[string]map[string]string)
		s.loaded = true
	}
	if s.data[group] == nil {
		s.data[group] = make(map[string]string)
	}
	if cur, ok := s.data[group][key]; ok && cur == value {
		return nil
	}
	s.data[group][key] = value
	return s.saveLocked()
}

// Unset removes group/key. Removing a missing key is not an error.
func (s *Store) Unset(group, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		s.data = make(map[string]map[string]string)
		s.loaded = true
	}
	if _, ok := s.data[group][key]; !ok {
		return nil
	}
	delete(s.data[group], key)
	if len(s.data[group]) == 0 {
		delete(s.data, group)
	}
	return s.saveLocked()
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.data = make(map[string]map[string]string)
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", s.path, err)
	}

	parsed := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", s.path, err)
	}
	if parsed == nil {
		parsed = make(map[string]map[string]string)
	}
	s.data = parsed
	s.loaded = true
	return nil
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
