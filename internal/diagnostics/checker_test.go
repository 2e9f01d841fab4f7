package diagnostics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sheet-translator/internal/domain"
)

// staticLanguages returns the built-in catalog regardless of path.
func staticLanguages(string) ([]domain.Language, error) {
	return domain.DefaultLanguages(), nil
}

// TestCheckerRunAllPass validates happy-path diagnostics report.
func TestCheckerRunAllPass(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "output")
	checker := NewCheckerForTests(
		"languages.yaml",
		staticLanguages,
		func(string) string { return "" },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		OutputDir: outputDir,
		Backend:   "google",
	})

	if report.HasFailures {
		t.Fatalf("expected no failures, got %+v", report.Items)
	}
	assertStatusByID(t, report, "output_dir", domain.DiagnosticStatusPass)
	assertStatusByID(t, report, "languages", domain.DiagnosticStatusPass)
	assertStatusByID(t, report, "backend", domain.DiagnosticStatusPass)

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("write check left files behind: %v", entries)
	}
}

// TestCheckerRunFailures validates failure reporting.
func TestCheckerRunFailures(t *testing.T) {
	checker := NewCheckerForTests(
		"languages.yaml",
		func(string) ([]domain.Language, error) { return nil, errors.New("bad yaml") },
		func(string) string { return "" },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		OutputDir: "",
		Backend:   "deepl",
	})

	if !report.HasFailures {
		t.Fatal("expected failures")
	}
	assertStatusByID(t, report, "output_dir", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "languages", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "backend", domain.DiagnosticStatusFail)
}

// TestCheckerOpenAIWithoutKeyWarns checks a missing key is a warning, not a failure.
func TestCheckerOpenAIWithoutKeyWarns(t *testing.T) {
	env := map[string]string{}
	checker := NewCheckerForTests(
		"languages.yaml",
		staticLanguages,
		func(key string) string { return env[key] },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)
	settings := domain.Settings{OutputDir: t.TempDir(), Backend: "openai"}

	report := checker.Run(settings)
	if report.HasFailures {
		t.Fatalf("warning should not count as failure: %+v", report.Items)
	}
	assertStatusByID(t, report, "backend", domain.DiagnosticStatusWarn)

	env[APIKeyEnv] = "sk-test"
	assertStatusByID(t, checker.Run(settings), "backend", domain.DiagnosticStatusPass)
}

// TestCheckerUnwritableOutputDir validates write-access failure.
func TestCheckerUnwritableOutputDir(t *testing.T) {
	checker := NewCheckerForTests(
		"languages.yaml",
		staticLanguages,
		func(string) string { return "" },
		func(string, os.FileMode) error { return nil },
		func(string, string) (*os.File, error) { return nil, errors.New("permission denied") },
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: "/readonly", Backend: "google"})
	assertStatusByID(t, report, "output_dir", domain.DiagnosticStatusFail)
}

// assertStatusByID checks status for one diagnostic item by ID.
func assertStatusByID(t *testing.T, report domain.DiagnosticReport, id string, want domain.DiagnosticStatus) {
	t.Helper()
	for _, item := range report.Items {
		if item.ID == id {
			if item.Status != want {
				t.Fatalf("item %s: got %s, want %s", id, item.Status, want)
			}
			return
		}
	}
	t.Fatalf("diagnostic item not found: %s", id)
}
