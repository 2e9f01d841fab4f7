// Package pipeline runs one translation of a spreadsheet into every
// selected target language.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"sheet-translator/internal/sheet"
	"sheet-translator/internal/translate"
)

// Stages reported by PipelineError.
const (
	StageValidate    = "validate"
	StageReading     = "reading"
	StageTranslating = "translating"
	StageWriting     = "writing"
)

// Precondition errors. Each aborts a run before any file is read or written.
var (
	ErrInputRequired     = errors.New("input file is required")
	ErrInputNotFound     = errors.New("cannot access input file")
	ErrOutputDirRequired = errors.New("output directory is required")
	ErrNoColumns         = errors.New("select at least one column to translate")
	ErrNoLanguages       = errors.New("select at least one target language")
	ErrInvalidLanguage   = errors.New("invalid target language code")
)

// ErrUnknownColumn is returned when a selected column is absent from the sheet.
var ErrUnknownColumn = errors.New("selected column not found in sheet")

// Request contains the selection and callbacks for one run.
type Request struct {
	InputPath  string
	OutputDir  string
	Columns    []string
	Languages  []string
	Backend    translate.Config
	OnProgress func(Progress)
}

// Progress is reported after every translated row.
type Progress struct {
	Language  string
	Completed int
	Total     int
	Percent   float64
}

// Result lists the files written by a successful run.
type Result struct {
	Outputs       []string
	Rows          int
	DegradedCells int
}

// PipelineError is a stage-aware error. Message is a fixed, translatable
// sentence; Detail carries the variable part such as a path.
type PipelineError struct {
	Stage   string   `json:"stage"`
	Message string   `json:"message"`
	Detail  string   `json:"detail,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
	Err     error    `json:"-"`
}

// Error formats pipeline failures for logs and UI.
func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Message)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Plan is a validated request with its translator resolved.
type Plan struct {
	inputPath  string
	outputDir  string
	columns    []string
	languages  []string
	capability *translate.Capability
	onProgress func(Progress)
}

// Languages returns the normalized target language codes in run order.
func (p *Plan) Languages() []string {
	return append([]string(nil), p.languages...)
}

// Backend names the translator the plan will use.
func (p *Plan) Backend() string {
	return p.capability.Name()
}

// Pipeline reads, translates and writes spreadsheets.
type Pipeline struct {
	newBackend func(translate.Config) (translate.Backend, error)
	read       func(path string) (*sheet.Table, error)
	write      func(path string, columns []string, rows [][]interface{}) error
	stat       func(name string) (os.FileInfo, error)
	mkdirAll   func(path string, perm os.FileMode) error
}

// NewPipeline constructs the production pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		newBackend: translate.New,
		read:       sheet.Read,
		write:      sheet.WriteValues,
		stat:       os.Stat,
		mkdirAll:   os.MkdirAll,
	}
}

// Run validates req and executes it.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	plan, err := p.Prepare(req)
	if err != nil {
		return Result{}, err
	}
	return p.Execute(ctx, plan)
}

// Prepare checks every precondition of a run and builds its translator.
// It never reads or writes spreadsheet files.
func (p *Pipeline) Prepare(req Request) (*Plan, error) {
	inputPath := strings.TrimSpace(req.InputPath)
	if inputPath == "" {
		return nil, validateError(ErrInputRequired, "")
	}
	if _, err := p.stat(inputPath); err != nil {
		return nil, &PipelineError{
			Stage:   StageValidate,
			Message: ErrInputNotFound.Error(),
			Detail:  inputPath,
			Err:     fmt.Errorf("%w: %v", ErrInputNotFound, err),
		}
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return nil, validateError(ErrOutputDirRequired, "")
	}

	columns := compact(req.Columns, false)
	if len(columns) == 0 {
		return nil, validateError(ErrNoColumns, "")
	}

	languages := compact(req.Languages, true)
	if len(languages) == 0 {
		return nil, validateError(ErrNoLanguages, "")
	}
	for _, code := range languages {
		if _, err := language.Parse(code); err != nil {
			return nil, validateError(ErrInvalidLanguage, code)
		}
	}

	backend, err := p.newBackend(req.Backend)
	if err != nil {
		message := "cannot create translation backend"
		if errors.Is(err, translate.ErrMissingCredential) {
			message = translate.ErrMissingCredential.Error()
		}
		return nil, &PipelineError{
			Stage:   StageValidate,
			Message: message,
			Detail:  string(req.Backend.Kind),
			Err:     err,
		}
	}

	return &Plan{
		inputPath:  inputPath,
		outputDir:  outputDir,
		columns:    columns,
		languages:  languages,
		capability: translate.NewCapability(backend),
		onProgress: req.OnProgress,
	}, nil
}

// Execute translates every row into every language of plan, languages
// outer and rows inner, writing one file per language as soon as its rows
// are done. A failure aborts the remaining languages; files already
// written are kept and listed on the returned error.
func (p *Pipeline) Execute(ctx context.Context, plan *Plan) (Result, error) {
	if err := p.mkdirAll(plan.outputDir, 0o755); err != nil {
		return Result{}, &PipelineError{
			Stage:   StageWriting,
			Message: "cannot create output directory",
			Detail:  plan.outputDir,
			Err:     err,
		}
	}

	table, err := p.read(plan.inputPath)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageReading,
			Message: "cannot read input file",
			Detail:  plan.inputPath,
			Err:     err,
		}
	}

	selected, missing := table.Select(plan.columns)
	if len(missing) > 0 {
		return Result{}, &PipelineError{
			Stage:   StageReading,
			Message: ErrUnknownColumn.Error(),
			Detail:  strings.Join(missing, ", "),
			Err:     ErrUnknownColumn,
		}
	}

	result := Result{Rows: len(table.Rows)}
	total := len(plan.languages) * len(table.Rows)
	completed := 0

	log.Printf("[pipeline] translating %d rows x %d languages with %s: input=%s",
		len(table.Rows), len(plan.languages), plan.capability.Name(), plan.inputPath)

	for _, lang := range plan.languages {
		translated := make([][]interface{}, 0, len(table.Rows))
		for r, row := range table.Rows {
			if err := ctx.Err(); err != nil {
				return result, &PipelineError{
					Stage:   StageTranslating,
					Message: "run interrupted",
					Outputs: result.Outputs,
					Err:     err,
				}
			}

			out := make([]interface{}, len(row))
			for i, cell := range row {
				out[i] = table.Value(r, i)
				if !selected[i] {
					continue
				}
				res := plan.capability.Translate(ctx, cell, lang)
				if res.Degraded {
					result.DegradedCells++
				}
				// Unchanged text keeps the stored value and its type.
				if res.Text != cell {
					out[i] = res.Text
				}
			}
			translated = append(translated, out)

			completed++
			emitProgress(plan.onProgress, Progress{
				Language:  lang,
				Completed: completed,
				Total:     total,
				Percent:   float64(completed) * 100 / float64(total),
			})
		}

		outPath := OutputPath(plan.inputPath, plan.outputDir, lang)
		if err := p.write(outPath, table.Columns, translated); err != nil {
			return result, &PipelineError{
				Stage:   StageWriting,
				Message: "cannot write output file",
				Detail:  outPath,
				Outputs: append([]string(nil), result.Outputs...),
				Err:     err,
			}
		}
		result.Outputs = append(result.Outputs, outPath)
		log.Printf("[pipeline] wrote %s (%d rows)", outPath, len(translated))
	}

	if result.DegradedCells > 0 {
		log.Printf("[pipeline] %d cells kept their original text after backend failures", result.DegradedCells)
	}
	return result, nil
}

// OutputPath names the output file for one language: {base}_{code}.xlsx.
func OutputPath(inputPath, outputDir, code string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "translation"
	}
	return filepath.Join(outputDir, name+"_"+code+".xlsx")
}

// emitProgress forwards progress when callback is configured.
func emitProgress(cb func(Progress), progress Progress) {
	if cb != nil {
		cb(progress)
	}
}

func validateError(sentinel error, detail string) *PipelineError {
	return &PipelineError{
		Stage:   StageValidate,
		Message: sentinel.Error(),
		Detail:  detail,
		Err:     sentinel,
	}
}

// compact trims and de-duplicates values, keeping first occurrences.
// Column names keep their inner spacing; only fully blank entries drop.
func compact(values []string, trim bool) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if trim {
			v = strings.TrimSpace(v)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// NewPipelineForTests constructs a pipeline with injectable dependencies.
func NewPipelineForTests(
	newBackend func(translate.Config) (translate.Backend, error),
	read func(path string) (*sheet.Table, error),
	write func(path string, columns []string, rows [][]interface{}) error,
) *Pipeline {
	return &Pipeline{
		newBackend: newBackend,
		read:       read,
		write:      write,
		stat:       os.Stat,
		mkdirAll:   os.MkdirAll,
	}
}
