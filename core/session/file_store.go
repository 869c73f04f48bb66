package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps records in a single JSON file, one entry per id.
// It is meant for the command line client, where the "browser" is the user's profile.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type fileEntry struct {
	Record
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewFileStore creates a store backed by the file at path. The file and its
// directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultProfilePath returns <user config dir>/crowdpredictor/session.json.
func DefaultProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: locate config dir: %w", err)
	}
	return filepath.Join(dir, "crowdpredictor", "session.json"), nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return Record{}, err
	}
	e, ok := entries[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !e.ExpiresAt.IsZero() && s.now().After(e.ExpiresAt) {
		return Record{}, ErrNotFound
	}
	return e.Record, nil
}

func (s *FileStore) Save(_ context.Context, id string, rec Record, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	e := fileEntry{Record: rec}
	if ttl > 0 {
		e.ExpiresAt = s.now().Add(ttl)
	}
	entries[id] = e
	return s.write(entries)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[id]; !ok {
		return nil
	}
	delete(entries, id)
	return s.write(entries)
}

// read returns the stored entries. A missing file is an empty store. A file
// that is not valid JSON is removed and read as empty, so a corrupted profile
// never blocks the user and does not linger on disk.
func (s *FileStore) read() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read profile: %w", err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("session: remove corrupted profile: %w", err)
		}
		return make(map[string]fileEntry), nil
	}
	return entries, nil
}

// write replaces the file atomically with owner-only permissions.
func (s *FileStore) write(entries map[string]fileEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create profile dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session: write profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write profile: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: write profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session: write profile: %w", err)
	}
	return nil
}
