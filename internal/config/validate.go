package config

import (
	"fmt"
	"strings"
)

// validValues maps enumerated fields to their allowed values.
var validValues = map[string][]string{
	"backend":    {"yaml", "dir", "sqlite"},
	"log.level":  {"debug", "info", "warn", "error", "fatal"},
	"log.format": {"text", "json", "logfmt"},
}

// Validate checks cfg. It returns an error describing every invalid value
// found, or nil if all values are valid.
func Validate(cfg Config) error {
	values := map[string]string{
		"backend":    cfg.Backend,
		"log.level":  strings.ToLower(cfg.Log.Level),
		"log.format": strings.ToLower(cfg.Log.Format),
	}

	var errs []string
	for _, key := range []string{"backend", "log.level", "log.format"} {
		allowed := validValues[key]
		if val := values[key]; !contains(allowed, val) {
			errs = append(errs, fmt.Sprintf(
				"%s: invalid value %q (allowed: %s)",
				key, val, strings.Join(allowed, ", ")))
		}
	}

	if len(cfg.Languages) == 0 {
		errs = append(errs, "languages: must list at least one language")
	}
	for _, code := range cfg.Languages {
		if strings.TrimSpace(code) == "" {
			errs = append(errs, "languages: empty language code")
			break
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
