package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheet-translator/internal/domain"
)

// Store defines persistence operations for app settings.
type Store interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
}

// JSONStore persists settings in a single JSON file on disk.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-backed settings store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads settings from disk. A missing file yields DefaultSettings, and
// fields absent from an older file keep their defaults.
func (s *JSONStore) Load() (domain.Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return Normalize(cfg), nil
}

// Save writes normalized settings as indented JSON. The file is replaced
// through a rename so a crash never leaves it half written.
func (s *JSONStore) Save(cfg domain.Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(Normalize(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Normalize trims user input and restores defaults for empty fields.
func Normalize(cfg domain.Settings) domain.Settings {
	defaults := DefaultSettings()

	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.OpenAIModel = strings.TrimSpace(cfg.OpenAIModel)
	cfg.OpenAIBaseURL = strings.TrimSpace(cfg.OpenAIBaseURL)
	cfg.UILanguage = strings.TrimSpace(cfg.UILanguage)

	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = defaults.OpenAIModel
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaults.TimeoutSeconds
	}
	return cfg
}
