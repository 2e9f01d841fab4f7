package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"sheet-translator/internal/config"
	"sheet-translator/internal/diagnostics"
	"sheet-translator/internal/domain"
	"sheet-translator/internal/i18n"
	"sheet-translator/internal/jobs"
	"sheet-translator/internal/pipeline"
	"sheet-translator/internal/sheet"
	"sheet-translator/internal/translate"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

type translateOptions struct {
	columns   []string
	languages []string
	outputDir string
	backend   string
	apiKey    string
	model     string
	baseURL   string
	timeout   time.Duration
}

func newTranslateCmd() *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate <input.xlsx>",
		Short: "Translate columns of a workbook",
		Example: `  sheet-translator translate report.xlsx -c title -c desc -l ja -l de -o out/
  sheet-translator translate report.xlsx -c title -l Japanese --backend openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.columns, "column", "c", nil, "Column header to translate (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.languages, "lang", "l", nil, "Target language code or label (repeatable)")
	cmd.Flags().StringVarP(&opts.outputDir, "out", "o", "", "Output directory (default: configured output directory)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", fmt.Sprintf("Translation backend: %s", kindList()))
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", fmt.Sprintf("API key for credentialed backends (default: $%s)", diagnostics.APIKeyEnv))
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name for the openai backend")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "API base URL for the openai backend")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default: configured timeout)")

	return cmd
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <input.xlsx>",
		Short: "List the columns of a workbook that hold data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := sheet.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%s, %d rows)", filepath.Base(args[0]), table.Sheet, len(table.Rows))))
			for _, col := range table.NonEmptyColumns() {
				fmt.Printf("  %s\n", col.Name)
			}
			return nil
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the available target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			langs, err := config.LoadLanguages(filepath.Join(config.Dir(), config.LanguagesFileName))
			if err != nil {
				return err
			}
			for _, lang := range langs {
				fmt.Printf("  %-8s %s\n", lang.Code, lang.Label)
			}
			return nil
		},
	}
}

func runTranslate(ctx context.Context, inputPath string, opts *translateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.NewJSONStore(filepath.Join(config.Dir(), "settings.json")).Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	i18n.Init(settings.UILanguage)

	catalog, err := config.LoadLanguages(filepath.Join(config.Dir(), config.LanguagesFileName))
	if err != nil {
		return err
	}

	backend, err := backendConfig(opts, settings, os.Getenv)
	if err != nil {
		return err
	}

	outputDir := opts.outputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = settings.OutputDir
	}

	queue := jobs.NewEventQueue()
	renderer := &progressRenderer{}
	pollCtx, stopPolling := context.WithCancel(context.Background())
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		(&jobs.Poller{Queue: queue, Handle: renderer.handle}).Run(pollCtx)
	}()

	result, runErr := pipeline.NewPipeline().Run(ctx, pipeline.Request{
		InputPath: inputPath,
		OutputDir: outputDir,
		Columns:   opts.columns,
		Languages: resolveLanguages(opts.languages, catalog),
		Backend:   backend,
		OnProgress: func(p pipeline.Progress) {
			queue.Publish(jobs.Event{
				Type:      jobs.EventTypeProgress,
				Percent:   p.Percent,
				Completed: p.Completed,
				Total:     p.Total,
				Language:  p.Language,
			})
		},
	})

	stopPolling()
	<-polled
	renderer.finish()

	if runErr != nil {
		var pErr *pipeline.PipelineError
		if errors.As(runErr, &pErr) {
			for _, out := range pErr.Outputs {
				fmt.Println(infoStyle.Render("  kept " + out))
			}
		}
		return runErr
	}

	fmt.Println(successStyle.Render("✓ " + i18n.T("Translation finished!")))
	for _, out := range result.Outputs {
		fmt.Println(infoStyle.Render("  " + out))
	}
	if result.DegradedCells > 0 {
		fmt.Println(infoStyle.Render(fmt.Sprintf("  %d cells kept their original text", result.DegradedCells)))
	}
	return nil
}

// backendConfig merges flags over settings; flags win.
func backendConfig(opts *translateOptions, settings domain.Settings, getenv func(string) string) (translate.Config, error) {
	name := opts.backend
	if strings.TrimSpace(name) == "" {
		name = settings.Backend
	}
	kind, err := translate.ParseKind(name)
	if err != nil {
		return translate.Config{}, err
	}

	cfg := translate.Config{
		Kind:    kind,
		Timeout: opts.timeout,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	if kind != translate.KindOpenAI {
		return cfg, nil
	}

	cfg.APIKey = strings.TrimSpace(opts.apiKey)
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(getenv(diagnostics.APIKeyEnv))
	}
	cfg.Model = firstNonEmpty(opts.model, settings.OpenAIModel)
	cfg.BaseURL = firstNonEmpty(opts.baseURL, settings.OpenAIBaseURL)
	return cfg, nil
}

// resolveLanguages maps catalog labels to codes. Anything else is passed
// through as a code for the pipeline to validate.
func resolveLanguages(values []string, catalog []domain.Language) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		code := value
		for _, lang := range catalog {
			if strings.EqualFold(lang.Label, value) || strings.EqualFold(lang.Code, value) {
				code = lang.Code
				break
			}
		}
		out = append(out, code)
	}
	return out
}

// progressRenderer draws one bar per run, fed by the poller.
type progressRenderer struct {
	bar *progressbar.ProgressBar
}

func (r *progressRenderer) handle(event jobs.Event) {
	if event.Type != jobs.EventTypeProgress || event.Total == 0 {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(event.Total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	r.bar.Describe(fmt.Sprintf("[%s]", event.Language))
	_ = r.bar.Set(event.Completed)
}

func (r *progressRenderer) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
}

func kindList() string {
	kinds := translate.Kinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
