package cmd

import (
	"context"
	"io"
	"os"
	"sync"

	"settings-lite/internal/config"
	"settings-lite/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	PrefsPath  string
	JSONOutput bool
	Verbose    bool
	Out        io.Writer
	Err        io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	if p.app != nil {
		p.app.JSON = p.app.JSON || p.JSONOutput
	}
	return p.app, p.err
}

// Close releases the App if one was created.
func (p *AppProvider) Close() error {
	if p.app == nil {
		return nil
	}
	return p.app.Close()
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		Out: app.Out,
		Err: app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	dir, err := config.ResolveDir(p.PrefsPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	logger, logCloser, err := logging.New(cfg.Log, errOut)
	if err != nil {
		return nil, err
	}
	if p.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	app, err := NewApp(context.Background(), dir, cfg, logger, out, errOut)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	app.JSON = p.JSONOutput
	app.closers = append(app.closers, logCloser)
	return app, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}
	defer provider.Close()

	rootCmd := newRootCmd(provider)
	return rootCmd.ExecuteContext(context.Background())
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Persisted game settings that stay in sync with their subsystems",
		Long: `prefs manages the settings of the game settings screen.

Every setting is persisted in .prefs/ and applied to the subsystem it
controls (renderer, audio mixer, localizer) whenever it is loaded or
changed. A fresh directory converges to a complete set of defaults on
first load.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&provider.Verbose, "verbose", "v", false, "Log subsystem activity")
	rootCmd.PersistentFlags().StringVar(&provider.PrefsPath, "path", "", "Path to .prefs directory (default: $PREFS_DIR or search from cwd)")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newStatusCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newToggleCmd(provider))
	rootCmd.AddCommand(newCycleCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newSwitchCmd(provider))
	rootCmd.AddCommand(newResetCmd(provider))
	rootCmd.AddCommand(newLanguagesCmd(provider))
	rootCmd.AddCommand(newDoctorCmd(provider))
	rootCmd.AddCommand(newConfigCmd(provider))

	return rootCmd
}
