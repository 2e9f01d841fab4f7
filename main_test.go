package main

import (
	"strings"
	"testing"
)

// TestFrontendColumnSelectionButtons verifies the bulk column toggles are embedded and wired.
func TestFrontendColumnSelectionButtons(t *testing.T) {
	html := readAsset(t, "frontend/index.html")
	script := readAsset(t, "frontend/app.js")

	for _, id := range []string{"select-all-columns", "deselect-all-columns"} {
		if !strings.Contains(html, `id="`+id+`"`) {
			t.Fatalf("index.html has no #%s button", id)
		}
		if !strings.Contains(script, `$("`+id+`").onclick`) {
			t.Fatalf("app.js does not handle #%s", id)
		}
	}
}

// TestFrontendAcceptsEventsBeforeRunID verifies a new run clears the tracked ID before starting.
func TestFrontendAcceptsEventsBeforeRunID(t *testing.T) {
	script := readAsset(t, "frontend/app.js")

	start := strings.Index(script, "async function start()")
	if start < 0 {
		t.Fatal("app.js has no start()")
	}
	body := script[start:]
	reset := strings.Index(body, `currentRunID = "";`)
	call := strings.Index(body, "StartTranslation(")
	if reset < 0 || call < 0 || reset > call {
		t.Fatalf("start() must clear currentRunID before StartTranslation (reset=%d call=%d)", reset, call)
	}
}

func readAsset(t *testing.T, name string) string {
	t.Helper()
	data, err := appAssets.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}
