// Package fsstore persists records as flat JSON files: one file per session
// under sessions/, one file per A/B test under tests/, named by key.
//
// There is no locking. The tool assumes a single operator running a single
// process at a time; concurrent writers to the same key get last-writer-wins
// at the filesystem's mercy.
package fsstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	sessionsDir = "sessions"
	testsDir    = "tests"
)

// Store holds the data directory layout shared by the repositories.
type Store struct {
	root string
}

// New creates the data directory layout under root. Unwritable storage is a
// loud error: every caller treats it as fatal for the invocation.
func New(root string) (*Store, error) {
	for _, dir := range []string{sessionsDir, testsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// Root returns the data directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) writeJSON(dir, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	path := filepath.Join(s.root, dir, key+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// readJSON loads one record. Returns (false, nil) when the file does not
// exist: not-found is a soft condition for every store consumer.
func (s *Store) readJSON(dir, key string, v any) (bool, error) {
	path := filepath.Join(s.root, dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse record %s: %w", path, err)
	}
	return true, nil
}

func (s *Store) listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys, nil
}
