package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ava-backend/internal/email/domain"
)

// Store is a file-backed settings store. Reads come from memory; writes go
// through a temp file and rename so a crash never leaves a torn file.
type Store struct {
	mu      sync.RWMutex
	path    string
	current domain.UserSettings
}

// NewStore loads settings from path. A missing or unreadable file falls back
// to zero-value settings rather than failing startup.
func NewStore(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Settings] Failed to read %s, using defaults: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		log.Printf("[Settings] Failed to parse %s, using defaults: %v", path, err)
		s.current = domain.UserSettings{}
	}
	return s
}

// Current returns the settings in effect right now.
func (s *Store) Current() domain.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the settings and persists them.
func (s *Store) Update(settings domain.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	s.current = settings
	return nil
}
