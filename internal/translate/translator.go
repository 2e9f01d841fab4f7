// Package translate provides the translation backends and the capability
// the pipeline uses to translate one cell at a time.
package translate

import (
	"context"
	"fmt"
	"log"
)

// Backend performs one raw translation call against a remote service.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Translate returns text translated into targetLang.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Result is the outcome of translating one cell. Text is always usable:
// a degraded result carries the original text and the failure reason.
type Result struct {
	Text     string
	Degraded bool
	Reason   error
}

// Capability wraps a Backend so callers never see per-cell failures.
type Capability struct {
	backend Backend
}

// NewCapability wraps backend.
func NewCapability(backend Backend) *Capability {
	return &Capability{backend: backend}
}

// Name reports the wrapped backend name.
func (c *Capability) Name() string {
	return c.backend.Name()
}

// Translate translates text into targetLang. Empty text is returned as-is
// without calling the backend; backend failures fall back to text.
func (c *Capability) Translate(ctx context.Context, text, targetLang string) (res Result) {
	if text == "" {
		return Result{}
	}

	defer func() {
		if r := recover(); r != nil {
			res = c.degrade(text, targetLang, fmt.Errorf("backend panic: %v", r))
		}
	}()

	out, err := c.backend.Translate(ctx, text, targetLang)
	if err != nil {
		return c.degrade(text, targetLang, err)
	}
	return Result{Text: out}
}

func (c *Capability) degrade(text, targetLang string, err error) Result {
	log.Printf("[translate] %s -> %s failed, keeping original text: %v", c.backend.Name(), targetLang, err)
	return Result{Text: text, Degraded: true, Reason: err}
}
