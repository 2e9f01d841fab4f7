// Package i18n localizes the messages the app shows to users.
//
// Translations are gettext PO files embedded under locales/ and loaded with
// gotext. Untranslated strings pass through unchanged.
package i18n

import (
	"embed"
	"os"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

// Directory structure: locales/{lang}/LC_MESSAGES/sheet-translator.po
//
//go:embed all:locales
var locales embed.FS

const domain = "sheet-translator"

var (
	mu     sync.RWMutex
	locale *gotext.Locale
	active string
)

// Init loads the catalog for lang. An empty lang is detected from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG).
func Init(lang string) {
	if strings.TrimSpace(lang) == "" {
		lang = detectLanguage()
	}

	l := gotext.NewLocaleFSWithPath(lang, locales, "locales")
	l.AddDomain(domain)
	l.SetDomain(domain)

	mu.Lock()
	locale = l
	active = lang
	mu.Unlock()
}

// Language returns the language passed to the last Init.
func Language() string {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// T translates msgid, formatting vars like fmt.Sprintf.
func T(msgid string, vars ...interface{}) string {
	mu.RLock()
	l := locale
	mu.RUnlock()

	if l == nil {
		if len(vars) == 0 {
			return msgid
		}
		return gotext.FormatString(msgid, vars...)
	}
	return l.Get(msgid, vars...)
}

// Text translates msgid as-is. Use it for messages chosen at run time;
// msgid is never treated as a format.
func Text(msgid string) string {
	mu.RLock()
	l := locale
	mu.RUnlock()

	if l == nil {
		return msgid
	}
	if tr, ok := l.GetTranslations()[msgid]; ok {
		return tr.Get()
	}
	return msgid
}

// N translates a message with plural forms.
func N(singular, plural string, n int, vars ...interface{}) string {
	mu.RLock()
	l := locale
	mu.RUnlock()

	if l == nil {
		msg := plural
		if n == 1 {
			msg = singular
		}
		if len(vars) == 0 {
			return msg
		}
		return gotext.FormatString(msg, vars...)
	}
	return l.GetN(singular, plural, n, vars...)
}

// detectLanguage follows GNU gettext environment priority.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
