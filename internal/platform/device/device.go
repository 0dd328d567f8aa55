// Package device reduces raw User-Agent strings to short human-readable
// descriptions for audit provenance.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Describe parses a User-Agent header into a "Browser on OS" display
// string. Unparseable agents still yield a usable description; the raw
// header stays available alongside it.
func Describe(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown Device"
	}

	parsed := useragent.New(raw)
	browser, _ := parsed.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := parsed.OSInfo().Name
	if os == "" {
		os = parsed.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}
