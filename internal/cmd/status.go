package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"settings-lite/internal/subsystem"

	"github.com/spf13/cobra"
)

// StatusJSON is the JSON output of the status command.
type StatusJSON struct {
	Dir      string                  `json:"dir"`
	Backend  string                  `json:"backend"`
	Settings []SettingJSON           `json:"settings"`
	Renderer subsystem.RendererState `json:"renderer"`
	Mixer    subsystem.MixerState    `json:"mixer"`
	Language LanguageJSON            `json:"language"`
	Pending  []string                `json:"pending,omitempty"`
	// Saved holds last write times, for backends that record them.
	Saved map[string]time.Time `json:"saved,omitempty"`
}

func newStatusCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show settings and the state they produced in each subsystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			st := StatusJSON{
				Dir:      app.Dir,
				Backend:  app.Prefs.Backend(),
				Renderer: app.Renderer.State(),
				Mixer:    app.Mixer.State(),
				Language: languageJSON(app, app.Localizer.Current()),
				Pending:  store.Pending(),
			}
			for _, def := range store.Definitions() {
				v, err := settingJSON(app, store, def)
				if err != nil {
					return err
				}
				st.Settings = append(st.Settings, v)

				at, ok, err := app.Prefs.UpdatedAt(cmd.Context(), def.Key)
				if err != nil {
					return err
				}
				if ok {
					if st.Saved == nil {
						st.Saved = make(map[string]time.Time)
					}
					st.Saved[def.Key] = at
				}
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st)
			}

			fmt.Fprintf(app.Out, "Settings: %s (%s)\n\n", st.Dir, st.Backend)
			for _, v := range st.Settings {
				if at, ok := st.Saved[v.Key]; ok {
					fmt.Fprintf(app.Out, "  %-24s %-16s saved %s\n", v.Key, v.Label, at.Local().Format(time.DateTime))
					continue
				}
				fmt.Fprintf(app.Out, "  %-24s %s\n", v.Key, v.Label)
			}

			fmt.Fprintln(app.Out, "\nRenderer:")
			fmt.Fprintf(app.Out, "  quality level     %d\n", st.Renderer.QualityLevel)
			fmt.Fprintf(app.Out, "  target frame rate %d\n", st.Renderer.TargetFrameRate)
			projection := "orthographic"
			if st.Renderer.Perspective {
				projection = "perspective"
			}
			fmt.Fprintf(app.Out, "  projection        %s\n", projection)

			fmt.Fprintln(app.Out, "\nMixer:")
			fmt.Fprintf(app.Out, "  music             %s\n", muted(st.Mixer.MusicMuted))
			fmt.Fprintf(app.Out, "  sfx               %s\n", muted(st.Mixer.SFXMuted))

			fmt.Fprintln(app.Out, "\nLocalizer:")
			fmt.Fprintf(app.Out, "  language          %s\n", st.Language.Name)

			if len(st.Pending) > 0 {
				fmt.Fprintf(app.Out, "\n%s not saved: %v\n", app.WarnColor("!"), st.Pending)
			}
			return nil
		},
	}
}

func muted(b bool) string {
	if b {
		return "muted"
	}
	return "on"
}
