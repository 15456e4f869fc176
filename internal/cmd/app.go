// Package cmd implements the prefs command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"settings-lite/internal/config"
	"settings-lite/internal/prefstore"
	"settings-lite/internal/settings"
	"settings-lite/internal/subsystem"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// App holds application state shared across commands.
type App struct {
	Prefs     *prefstore.Store
	Defs      []settings.Definition
	Renderer  *subsystem.Renderer
	Mixer     *subsystem.Mixer
	Localizer *subsystem.Localizer
	Config    config.Config
	Dir       string // path to .prefs directory
	Logger    *log.Logger
	Out       io.Writer
	Err       io.Writer
	JSON      bool // output in JSON format

	store   *settings.Store
	closers []io.Closer
}

// NewApp opens the configured backend in dir and builds the subsystems and
// setting definitions. Settings are loaded on the first call to Store.
func NewApp(ctx context.Context, dir string, cfg config.Config, logger *log.Logger, out, errOut io.Writer) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	localizer, err := subsystem.NewLocalizer(cfg.Languages, cfg.Locale, logger)
	if err != nil {
		return nil, fmt.Errorf("building language catalog: %w", err)
	}

	prefs, err := prefstore.Open(ctx, cfg.Backend, dir, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Prefs:     prefs,
		Renderer:  subsystem.NewRenderer(logger),
		Mixer:     subsystem.NewMixer(logger),
		Localizer: localizer,
		Config:    cfg,
		Dir:       dir,
		Logger:    logger,
		Out:       out,
		Err:       errOut,
		closers:   []io.Closer{prefs},
	}
	app.Defs = settings.Game(app.gameAdapters())
	return app, nil
}

func (a *App) gameAdapters() settings.GameAdapters {
	r, m := a.Renderer, a.Mixer
	return settings.GameAdapters{
		Graphics:   settings.AdapterFunc(r.SetQualityLevel),
		FrameLimit: settings.AdapterFunc(r.SetTargetFrameRate),
		Camera: settings.AdapterFunc(func(v int) {
			r.SetProjection(v == settings.ProjectionPerspective)
		}),
		Music:    settings.Switch(m.SetMusic),
		SFX:      settings.Switch(m.SetSFX),
		Language: a.Localizer,
	}
}

// Store returns the settings store, loading it on first use. Load problems
// that leave a usable store are reported on Err as warnings.
func (a *App) Store(ctx context.Context) (*settings.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := settings.Open(ctx, a.Prefs, a.Defs, settings.WithLogger(a.Logger))
	if s == nil {
		return nil, err
	}
	if err != nil {
		a.warn(err)
	}
	a.store = s
	return s, nil
}

// Definition returns the definition for key.
func (a *App) Definition(key string) (settings.Definition, bool) {
	for _, d := range a.Defs {
		if d.Key == key {
			return d, true
		}
	}
	return settings.Definition{}, false
}

// Close releases the backend and any log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) warn(err error) {
	if a.Err == nil {
		return
	}
	fmt.Fprintf(a.Err, "%s %v\n", a.WarnColor("warning:"), err)
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stderr is a terminal,
// otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if f, ok := a.Err.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}
