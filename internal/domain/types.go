package domain

// RunStatus tracks the lifecycle of a single translation run.
type RunStatus string

const (
	RunStatusIdle    RunStatus = "idle"
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusFailed  RunStatus = "failed"
)

// Settings contains user-selectable runtime configuration.
type Settings struct {
	OutputDir      string   `json:"outputDir"`
	Backend        string   `json:"backend"`
	OpenAIModel    string   `json:"openaiModel"`
	OpenAIBaseURL  string   `json:"openaiBaseUrl"`
	TimeoutSeconds int      `json:"timeoutSeconds"`
	UILanguage     string   `json:"uiLanguage"`
	LastLanguages  []string `json:"lastLanguages,omitempty"`
}

// RunRequest is the selection submitted by the interface to start a run.
type RunRequest struct {
	InputPath string   `json:"inputPath"`
	OutputDir string   `json:"outputDir"`
	Columns   []string `json:"columns"`
	Languages []string `json:"languages"`
	Backend   string   `json:"backend"`
	APIKey    string   `json:"apiKey,omitempty"`
}

// Run stores the current run identity and lifecycle status.
type Run struct {
	ID     string    `json:"id"`
	Status RunStatus `json:"status"`
}

// ColumnInfo describes one translatable column of a loaded sheet.
type ColumnInfo struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// SheetPreview is what the interface needs after a file is chosen.
type SheetPreview struct {
	Path     string       `json:"path"`
	Sheet    string       `json:"sheet"`
	RowCount int          `json:"rowCount"`
	Columns  []ColumnInfo `json:"columns"`
}
