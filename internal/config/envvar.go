package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Environment variable names for settings-lite configuration.
const (
	EnvPrefix    = "PREFS_"
	EnvDir       = "PREFS_DIR"        // Path to .prefs directory
	EnvBackend   = "PREFS_BACKEND"    // Override persistence backend
	EnvLocale    = "PREFS_LOCALE"     // Override locale used for the default language
	EnvLanguages = "PREFS_LANGUAGES"  // Comma-separated language catalog
	EnvLogLevel  = "PREFS_LOG_LEVEL"  // debug, info, warn, error
	EnvLogFormat = "PREFS_LOG_FORMAT" // text, json, logfmt
	EnvLogPath   = "PREFS_LOG_PATH"   // Append logs to this file instead of stderr
)

// ApplyEnvOverrides overrides cfg fields from PREFS_* environment variables.
// Unset variables leave the file values in place. Only init writes the
// overridden values back to a config file.
func ApplyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}
	return nil
}
