package translate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind selects a translation backend.
type Kind string

const (
	KindGoogle Kind = "google"
	KindOpenAI Kind = "openai"
)

// DefaultTimeout bounds a single backend HTTP request.
const DefaultTimeout = 60 * time.Second

// ErrUnknownKind is returned for backend names outside Kinds().
var ErrUnknownKind = errors.New("unknown translation backend")

// ErrMissingCredential is returned when a credentialed backend has no API key.
var ErrMissingCredential = errors.New("API key is required for this backend")

// Kinds lists supported backends in menu order.
func Kinds() []Kind {
	return []Kind{KindGoogle, KindOpenAI}
}

// ParseKind maps a backend name to a Kind. Empty input selects Google.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", KindGoogle:
		return KindGoogle, nil
	case KindOpenAI:
		return KindOpenAI, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, raw)
	}
}

// Config carries everything needed to build a backend for one run.
type Config struct {
	Kind    Kind
	APIKey  string
	Model   string
	// BaseURL overrides the service endpoint, mainly for tests and proxies.
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// New resolves cfg into a concrete backend. It is called once per run.
func New(cfg Config) (Backend, error) {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	switch cfg.Kind {
	case "", KindGoogle:
		return NewGoogleBackend(cfg.BaseURL, client), nil
	case KindOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrMissingCredential
		}
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, client), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, cfg.Kind)
	}
}
