package diagnostics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sheet-translator/internal/domain"
	"sheet-translator/internal/translate"
)

// APIKeyEnv is consulted when a credentialed backend has no key in the request.
const APIKeyEnv = "OPENAI_API_KEY"

// Checker validates settings and the files the app depends on.
type Checker struct {
	languagesPath string
	loadLanguages func(string) ([]domain.Language, error)
	getenv        func(string) string
	mkdirAll      func(string, os.FileMode) error
	createTemp    func(string, string) (*os.File, error)
	remove        func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker(languagesPath string, loadLanguages func(string) ([]domain.Language, error)) *Checker {
	return &Checker{
		languagesPath: languagesPath,
		loadLanguages: loadLanguages,
		getenv:        os.Getenv,
		mkdirAll:      os.MkdirAll,
		createTemp:    os.CreateTemp,
		remove:        os.Remove,
	}
}

// Run executes all checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkOutputDir(settings.OutputDir),
		c.checkLanguages(),
		c.checkBackend(settings.Backend),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkOutputDir validates output directory existence and write access.
func (c *Checker) checkOutputDir(outputDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:      "output_dir",
		Name:    "Output directory",
		Fixable: true,
	}

	if strings.TrimSpace(outputDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Output directory is empty."
		item.Hint = "Choose a folder where translated workbooks will be written."
		return item
	}

	if err := c.mkdirAll(outputDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create output directory: %s", outputDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(outputDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Output directory is not writable: %s", outputDir)
		item.Hint = "Choose a writable directory for translated workbooks."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", outputDir)
	item.Fixable = false
	return item
}

// checkLanguages validates the optional language catalog override.
func (c *Checker) checkLanguages() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "languages",
		Name: "Target languages",
	}

	langs, err := c.loadLanguages(c.languagesPath)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = err.Error()
		item.Hint = fmt.Sprintf("Fix or delete %s to use the built-in language list.", c.languagesPath)
		item.Fixable = true
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("%d target languages available.", len(langs))
	return item
}

// checkBackend validates the configured backend and its credential source.
func (c *Checker) checkBackend(name string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "backend",
		Name: "Translation backend",
	}

	kind, err := translate.ParseKind(name)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = err.Error()
		item.Hint = "Select one of the supported backends in settings."
		return item
	}

	if kind == translate.KindOpenAI && strings.TrimSpace(c.getenv(APIKeyEnv)) == "" {
		item.Status = domain.DiagnosticStatusWarn
		item.Message = "OpenAI backend selected but no API key found in the environment."
		item.Hint = fmt.Sprintf("Enter the API key when starting a run or set %s.", APIKeyEnv)
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Using %s backend.", kind)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	languagesPath string,
	loadLanguages func(string) ([]domain.Language, error),
	getenv func(string) string,
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		languagesPath: languagesPath,
		loadLanguages: loadLanguages,
		getenv:        getenv,
		mkdirAll:      mkdirAll,
		createTemp:    createTemp,
		remove:        remove,
	}
}
