// Package config handles settings-lite configuration loading and defaults.
//
// The config file lives next to the persisted settings in the .prefs
// directory, as config.yaml or config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the contents of .prefs/config.yaml.
type Config struct {
	// Backend selects where settings are persisted: yaml, dir or sqlite.
	Backend string `yaml:"backend" toml:"backend" json:"backend" env:"BACKEND"`
	// Locale overrides the system locale when picking the default language.
	Locale string `yaml:"locale,omitempty" toml:"locale,omitempty" json:"locale,omitempty" env:"LOCALE"`
	// Languages is the language catalog, as BCP 47 codes.
	Languages []string  `yaml:"languages" toml:"languages" json:"languages" env:"LANGUAGES" envSeparator:","`
	Log       LogConfig `yaml:"log" toml:"log" json:"log" envPrefix:"LOG_"`
}

// LogConfig configures logging. Level is one of debug, info, warn or error;
// Format is text, json or logfmt. An empty Path logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level" env:"LEVEL"`
	Format string `yaml:"format" toml:"format" json:"format" env:"FORMAT"`
	Path   string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty" env:"PATH"`
}

// Config file names, in lookup order.
const (
	FileYAML = "config.yaml"
	FileTOML = "config.toml"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		Backend:   "yaml",
		Languages: []string{"en", "ko", "ja", "zh-Hans", "de", "fr", "es"},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads a YAML or TOML config file (chosen by extension) from path and
// applies defaults for missing fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Backend == "" {
		cfg.Backend = "yaml"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = Default().Languages
	}

	return cfg, nil
}

// FindFile returns the config file in dir, or "" if there is none.
func FindFile(dir string) string {
	for _, name := range []string{FileYAML, FileTOML} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadDir loads the config file in dir, falling back to defaults when the
// directory has none.
func LoadDir(dir string) (Config, error) {
	path := FindFile(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Write writes the provided configuration to path, as TOML if path ends in
// .toml and YAML otherwise.
func Write(path string, cfg Config) error {
	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
