package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store persists recipe records as a JSON array on disk. Writes are atomic
// (temp file + rename) so the file stays valid JSON across repeated runs.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewStore returns a Store rooted at path, creating the parent directory.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create store dir for %s: %w", path, err)
	}
	return &Store{path: path, logger: logger}, nil
}

// Load reads all records. A missing file yields an empty set.
func (s *Store) Load() ([]Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Recipe, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recipes %s: %w", s.path, err)
	}
	var recipes []Recipe
	if err := json.Unmarshal(payload, &recipes); err != nil {
		return nil, fmt.Errorf("parse recipes %s: %w", s.path, err)
	}
	return recipes, nil
}

// Upsert merges the given records into the file, keyed by URL. A record for an
// already-stored URL replaces the old one; order is stable by URL.
func (s *Store) Upsert(records []Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}

	byURL := make(map[string]Recipe, len(existing)+len(records))
	for _, r := range existing {
		byURL[r.URL] = r
	}
	replaced := 0
	for _, r := range records {
		if r.URL == "" {
			continue
		}
		if _, ok := byURL[r.URL]; ok {
			replaced++
		}
		byURL[r.URL] = r
	}

	merged := make([]Recipe, 0, len(byURL))
	for _, r := range byURL {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].URL < merged[j].URL })

	if err := s.write(merged); err != nil {
		return err
	}
	s.logger.Info("recipes persisted",
		zap.String("path", s.path),
		zap.Int("total", len(merged)),
		zap.Int("added", len(records)-replaced),
		zap.Int("replaced", replaced),
	)
	return nil
}

func (s *Store) write(recipes []Recipe) error {
	payload, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recipes: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".recipes-*.json")
	if err != nil {
		return fmt.Errorf("create temp recipes file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp recipes file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp recipes file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace recipes file %s: %w", s.path, err)
	}
	return nil
}
