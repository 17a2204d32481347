package config

import (
	"log"

	"github.com/clockbar/clockbar/internal/models"
)

// Store reads and writes the settings document at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a store for <app-data-dir>/settings.json.
func DefaultStore() (*Store, error) {
	path, err := SettingsFile()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings document. A missing, unreadable or malformed
// file yields models.FallbackSettings; Load never fails.
func (s *Store) Load() *models.Settings {
	if !FileExists(s.path) {
		return models.FallbackSettings()
	}

	var settings models.Settings
	if err := LoadJSON(s.path, &settings); err != nil {
		log.Printf("[settings] Falling back to defaults: %v", err)
		return models.FallbackSettings()
	}
	return &settings
}

// Save replaces the settings document on disk.
func (s *Store) Save(settings *models.Settings) error {
	return SaveJSON(s.path, settings)
}
