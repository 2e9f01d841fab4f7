package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"sheet-translator/internal/config"
	"sheet-translator/internal/domain"
)

// TestInstallOrFixOutputDirCreatesDirectory ensures output dir fix creates missing directories.
func TestInstallOrFixOutputDirCreatesDirectory(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "translations")

	fixed, changed, err := installOrFixOutputDir(domain.Settings{OutputDir: outputDir})
	if err != nil {
		t.Fatalf("fix output dir: %v", err)
	}
	if changed {
		t.Fatal("expected settings to remain unchanged")
	}
	if fixed.OutputDir != outputDir {
		t.Fatalf("OutputDir = %s, want %s", fixed.OutputDir, outputDir)
	}
	if _, err := os.Stat(outputDir); err != nil {
		t.Fatalf("stat output dir: %v", err)
	}
}

// TestResetLanguagesFileBacksUpBrokenCatalog ensures the fix keeps the broken file.
func TestResetLanguagesFileBacksUpBrokenCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.LanguagesFileName)
	if err := os.WriteFile(path, []byte("languages: [oops"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	if err := resetLanguagesFile(path); err != nil {
		t.Fatalf("resetLanguagesFile() error = %v", err)
	}

	langs, err := config.LoadLanguages(path)
	if err != nil {
		t.Fatalf("load reset catalog: %v", err)
	}
	if len(langs) != len(domain.DefaultLanguages()) {
		t.Fatalf("languages = %d, want %d", len(langs), len(domain.DefaultLanguages()))
	}
	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != "languages: [oops" {
		t.Fatalf("backup = %q", backup)
	}
}

// TestInstallOrFixDiagnosticRejectsUnknownItem checks unsupported IDs.
func TestInstallOrFixDiagnosticRejectsUnknownItem(t *testing.T) {
	app := newTestApp(&fakeStore{}, nil)
	if _, err := app.InstallOrFixDiagnostic("backend"); err == nil {
		t.Fatal("expected error for unsupported item")
	}
	if _, err := app.InstallOrFixDiagnostic("  "); err == nil {
		t.Fatal("expected error for empty item id")
	}
}
