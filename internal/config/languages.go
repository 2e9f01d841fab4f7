package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"sheet-translator/internal/domain"
)

// LanguagesFileName is the optional catalog override inside Dir().
const LanguagesFileName = "languages.yaml"

// LanguagesFile is the YAML schema of the catalog override:
//
//	languages:
//	  - label: English
//	    code: en
type LanguagesFile struct {
	Languages []domain.Language `yaml:"languages"`
}

// LoadLanguages reads the target language catalog from path. A missing file
// yields domain.DefaultLanguages.
func LoadLanguages(path string) ([]domain.Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultLanguages(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var lf LanguagesFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(lf.Languages) == 0 {
		return nil, fmt.Errorf("%s: no languages declared", path)
	}

	seen := make(map[string]bool, len(lf.Languages))
	out := make([]domain.Language, 0, len(lf.Languages))
	for i, lang := range lf.Languages {
		lang.Code = strings.TrimSpace(lang.Code)
		lang.Label = strings.TrimSpace(lang.Label)
		if lang.Code == "" {
			return nil, fmt.Errorf("%s: language #%d has no code", path, i+1)
		}
		if _, err := language.Parse(lang.Code); err != nil {
			return nil, fmt.Errorf("%s: language %q: invalid code: %w", path, lang.Code, err)
		}
		if seen[lang.Code] {
			return nil, fmt.Errorf("%s: duplicate language code %q", path, lang.Code)
		}
		seen[lang.Code] = true
		if lang.Label == "" {
			lang.Label = lang.Code
		}
		out = append(out, lang)
	}

	return out, nil
}

// WriteLanguages replaces the catalog at path with langs.
func WriteLanguages(path string, langs []domain.Language) error {
	data, err := yaml.Marshal(LanguagesFile{Languages: langs})
	if err != nil {
		return fmt.Errorf("encoding languages: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
