package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"sheet-translator/internal/config"
	"sheet-translator/internal/diagnostics"
	"sheet-translator/internal/domain"
	"sheet-translator/internal/i18n"
	"sheet-translator/internal/jobs"
	"sheet-translator/internal/pipeline"
	"sheet-translator/internal/sheet"
	"sheet-translator/internal/translate"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// RunEventName is the frontend event carrying run progress.
const RunEventName = "run:event"

var spreadsheetDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Excel workbooks",
		Pattern:     "*.xlsx",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// App wires configuration, runs, pipeline, and UI runtime callbacks.
type App struct {
	Settings      domain.Settings
	Store         config.Store
	Runs          *jobs.Manager
	Pipeline      pipelineRunner
	Diagnostics   domain.DiagnosticReport
	LanguagesPath string
	assets        fs.FS
	checker       *diagnostics.Checker
	getenv        func(string) string

	mu         sync.Mutex
	events     *jobs.EventQueue
	runtimeCtx context.Context
	baseCtx    context.Context
	stop       context.CancelFunc
}

// pipelineRunner isolates the translation pipeline behind an interface.
type pipelineRunner interface {
	Prepare(req pipeline.Request) (*pipeline.Plan, error)
	Execute(ctx context.Context, plan *pipeline.Plan) (pipeline.Result, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	dir := config.Dir()
	store := config.NewJSONStore(filepath.Join(dir, "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	i18n.Init(settings.UILanguage)

	languagesPath := filepath.Join(dir, config.LanguagesFileName)
	checker := diagnostics.NewChecker(languagesPath, config.LoadLanguages)
	report := checker.Run(settings)

	ctx, stop := context.WithCancel(context.Background())
	return &App{
		Settings:      settings,
		Store:         store,
		Runs:          jobs.NewManager(),
		Pipeline:      pipeline.NewPipeline(),
		Diagnostics:   report,
		LanguagesPath: languagesPath,
		assets:        assets,
		checker:       checker,
		getenv:        os.Getenv,
		events:        jobs.NewEventQueue(),
		baseCtx:       ctx,
		stop:          stop,
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Sheet Translator",
		Width:       760,
		Height:      720,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
			if a.stop != nil {
				a.stop()
			}
		},
		Bind: []interface{}{a},
	})
}

// Startup stores the Wails runtime context and starts draining run events
// to the frontend for the lifetime of the window.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	poller := &jobs.Poller{
		Queue:    a.events,
		Interval: jobs.DefaultPollInterval,
		Handle:   a.emitEvent,
	}
	go poller.Run(ctx)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := config.Normalize(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	i18n.Init(normalized.UILanguage)

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// GetLanguages returns the target language menu.
func (a *App) GetLanguages() ([]domain.Language, error) {
	return config.LoadLanguages(a.LanguagesPath)
}

// GetBackends lists selectable translation backends.
func (a *App) GetBackends() []string {
	kinds := translate.Kinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return names
}

// PickInputFile opens a native file dialog for workbook selection.
func (a *App) PickInputFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select Excel file",
		Filters: spreadsheetDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickOutputDirectory opens a native directory picker for translated workbooks.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// LoadColumns reads a workbook and returns the columns that hold data.
func (a *App) LoadColumns(path string) (domain.SheetPreview, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.SheetPreview{}, fmt.Errorf("input path is empty")
	}

	table, err := sheet.Read(path)
	if err != nil {
		return domain.SheetPreview{}, err
	}

	preview := domain.SheetPreview{
		Path:     path,
		Sheet:    table.Sheet,
		RowCount: len(table.Rows),
		Columns:  []domain.ColumnInfo{},
	}
	for _, col := range table.NonEmptyColumns() {
		preview.Columns = append(preview.Columns, domain.ColumnInfo{Name: col.Name, Index: col.Index})
	}
	return preview, nil
}

// OpenOutputFolder opens the given path (or configured output dir) in file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.OutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// RefreshDiagnostics reloads settings and reruns checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}
	return a.refreshDiagnosticsFromSettings(settings), nil
}

// StartTranslation validates the selection and runs it in the background.
// Precondition failures are reported as a single error event and leave the
// run in failed state without touching any file; only a second start while
// a run is active returns an error.
func (a *App) StartTranslation(req domain.RunRequest) (domain.Run, error) {
	if a.Runs.IsRunning() {
		return domain.Run{}, jobs.ErrRunAlreadyActive
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.Run{}, fmt.Errorf("load settings: %w", err)
	}

	runID := "run-" + uuid.NewString()
	plan, err := a.Pipeline.Prepare(a.buildRequest(runID, req, settings))
	if err != nil {
		if rejectErr := a.Runs.Reject(runID); rejectErr != nil {
			return domain.Run{}, rejectErr
		}
		log.Printf("[app] run %s rejected: %v", runID, err)
		a.publishError(runID, err)
		return a.Runs.Current(), nil
	}

	if err := a.Runs.Start(runID); err != nil {
		return domain.Run{}, err
	}
	a.rememberSelection(settings, req)

	a.mu.Lock()
	ctx := a.baseCtx
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	go a.runTranslation(ctx, runID, plan)
	return a.Runs.Current(), nil
}

// CurrentRun returns current run metadata and status.
func (a *App) CurrentRun() domain.Run {
	return a.Runs.Current()
}

// ClearRun returns a finished run to idle so the next one starts fresh.
func (a *App) ClearRun() error {
	return a.Runs.Reset()
}

// buildRequest merges a run request with persisted settings.
func (a *App) buildRequest(runID string, req domain.RunRequest, settings domain.Settings) pipeline.Request {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = settings.OutputDir
	}

	backendName := strings.TrimSpace(req.Backend)
	if backendName == "" {
		backendName = settings.Backend
	}
	kind, err := translate.ParseKind(backendName)
	if err != nil {
		kind = translate.Kind(backendName)
	}

	backend := translate.Config{
		Kind:    kind,
		Timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
	}
	if kind == translate.KindOpenAI {
		backend.APIKey = strings.TrimSpace(req.APIKey)
		if backend.APIKey == "" && a.getenv != nil {
			backend.APIKey = strings.TrimSpace(a.getenv(diagnostics.APIKeyEnv))
		}
		backend.Model = settings.OpenAIModel
		backend.BaseURL = settings.OpenAIBaseURL
	}

	return pipeline.Request{
		InputPath: req.InputPath,
		OutputDir: outputDir,
		Columns:   req.Columns,
		Languages: req.Languages,
		Backend:   backend,
		OnProgress: func(p pipeline.Progress) {
			a.publishEvent(jobs.Event{
				RunID:     runID,
				Type:      jobs.EventTypeProgress,
				Percent:   p.Percent,
				Completed: p.Completed,
				Total:     p.Total,
				Language:  p.Language,
				Message:   i18n.T("Translation progress: %d/%d", p.Completed, p.Total),
			})
		},
	}
}

// runTranslation executes the plan and maps its outcome to run events.
func (a *App) runTranslation(ctx context.Context, runID string, plan *pipeline.Plan) {
	result, err := a.Pipeline.Execute(ctx, plan)
	if err != nil {
		_ = a.Runs.Finish(runID, domain.RunStatusFailed)
		log.Printf("[app] run %s failed: %v", runID, err)
		a.publishError(runID, err)
		return
	}

	_ = a.Runs.Finish(runID, domain.RunStatusDone)
	log.Printf("[app] run %s done: %d files", runID, len(result.Outputs))
	a.publishEvent(jobs.Event{
		RunID:   runID,
		Type:    jobs.EventTypeDone,
		Percent: 100,
		Message: i18n.T("Translation finished!"),
		Outputs: result.Outputs,
	})
}

// rememberSelection stores the output dir, backend and languages for the next run.
func (a *App) rememberSelection(settings domain.Settings, req domain.RunRequest) {
	if dir := strings.TrimSpace(req.OutputDir); dir != "" {
		settings.OutputDir = dir
	}
	if backend := strings.TrimSpace(req.Backend); backend != "" {
		settings.Backend = backend
	}
	settings.LastLanguages = append([]string(nil), req.Languages...)

	if err := a.Store.Save(settings); err != nil {
		log.Printf("[app] remember selection: %v", err)
		return
	}
	a.mu.Lock()
	a.Settings = config.Normalize(settings)
	a.mu.Unlock()
}

// publishError sends one terminal error event.
func (a *App) publishError(runID string, err error) {
	event := jobs.Event{
		RunID:   runID,
		Type:    jobs.EventTypeError,
		Message: errorMessage(err),
	}

	var pErr *pipeline.PipelineError
	if errors.As(err, &pErr) {
		event.Outputs = pErr.Outputs
	}
	a.publishEvent(event)
}

// publishEvent queues an event for the poller.
func (a *App) publishEvent(event jobs.Event) {
	a.events.Publish(event)
}

// emitEvent pushes one drained event to the frontend.
func (a *App) emitEvent(event jobs.Event) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, RunEventName, event)
	}
}

// errorMessage renders a localized, human-readable message for err.
func errorMessage(err error) string {
	var pErr *pipeline.PipelineError
	if !errors.As(err, &pErr) {
		return err.Error()
	}

	msg := i18n.Text(pErr.Message)
	if pErr.Detail != "" {
		msg += ": " + pErr.Detail
	}
	if n := len(pErr.Outputs); n > 0 {
		msg += " " + i18n.N("%d file was written before the failure.", "%d files were written before the failure.", n, n)
	}
	return msg
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
