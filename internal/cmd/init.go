package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"settings-lite/internal/config"
	"settings-lite/internal/prefstore"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the .prefs directory.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var (
		force   bool
		backend string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a settings directory",
		Long: `Create a .prefs directory in the current directory (or $PREFS_DIR),
write its config file and save the default value of every setting.

PREFS_* environment overrides in effect are written into the config file.

Backends:
  yaml    all settings in .prefs/settings.yaml (default)
  dir     one file per setting in .prefs/settings/
  sqlite  .prefs/settings.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := provider.Out
			if out == nil {
				out = os.Stdout
			}
			opts := initOptions{
				base:       provider.PrefsPath,
				force:      force,
				backend:    backend,
				backendSet: cmd.Flags().Changed("backend"),
				format:     format,
			}
			return runInit(cmd, out, opts)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the config file even if .prefs exists")
	cmd.Flags().StringVar(&backend, "backend", prefstore.BackendYAML, "Persistence backend (yaml, dir, sqlite; default $PREFS_BACKEND or yaml)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Config file format (yaml, toml)")

	return cmd
}

type initOptions struct {
	base       string
	force      bool
	backend    string
	backendSet bool // --backend given explicitly; wins over PREFS_BACKEND
	format     string
}

func runInit(cmd *cobra.Command, out io.Writer, opts initOptions) error {
	var configName string
	switch opts.format {
	case "yaml":
		configName = config.FileYAML
	case "toml":
		configName = config.FileTOML
	default:
		return fmt.Errorf("unknown config format %q (valid: yaml, toml)", opts.format)
	}

	// The written config captures PREFS_* overrides so the defaults saved
	// below are read back with the same catalog and locale.
	cfg := config.Default()
	if err := config.ApplyEnvOverrides(&cfg); err != nil {
		return err
	}
	if opts.backendSet {
		cfg.Backend = opts.backend
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Path resolution: --path > PREFS_DIR env var > CWD
	basePath := opts.base
	if basePath == "" {
		basePath = os.Getenv(config.EnvDir)
	}
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		basePath = cwd
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	prefsPath := absPath
	if filepath.Base(prefsPath) != config.DirName {
		prefsPath = filepath.Join(absPath, config.DirName)
	}

	if existing := config.FindFile(prefsPath); existing != "" {
		if !opts.force {
			return errors.New("settings directory already initialized (use --force to reinitialize)")
		}
		if err := os.Remove(existing); err != nil {
			return fmt.Errorf("removing old config: %w", err)
		}
	}

	if err := os.MkdirAll(prefsPath, 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", config.DirName, err)
	}

	configPath := filepath.Join(prefsPath, configName)
	if err := config.Write(configPath, cfg); err != nil {
		return err
	}

	app, err := NewApp(cmd.Context(), prefsPath, cfg, log.New(io.Discard), out, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	// Opening the store saves a default for every setting not yet saved.
	store, err := app.Store(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Initialized settings in %s\n", app.SuccessColor("✓"), prefsPath)
	fmt.Fprintf(out, "  Config:  %s\n", configPath)
	fmt.Fprintf(out, "  Backend: %s\n", app.Prefs.Backend())
	if pending := store.Pending(); len(pending) > 0 {
		fmt.Fprintf(out, "%s could not save defaults for %v\n", app.WarnColor("!"), pending)
	}
	return nil
}
