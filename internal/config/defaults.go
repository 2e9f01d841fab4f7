package config

import (
	"os"
	"path/filepath"

	"sheet-translator/internal/domain"
)

// AppDirName is the per-user directory holding settings and catalogs.
const AppDirName = ".sheet-translator"

// Dir returns the per-user configuration directory.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, AppDirName)
}

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		OutputDir:      filepath.Join(homeDir, "Documents", "Translations"),
		Backend:        "google",
		OpenAIModel:    "gpt-4",
		TimeoutSeconds: 60,
	}
}
