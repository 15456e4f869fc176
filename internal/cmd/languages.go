package cmd

import (
	"encoding/json"
	"fmt"

	"settings-lite/internal/settings"

	"github.com/spf13/cobra"
)

// LanguageJSON describes one catalog entry.
type LanguageJSON struct {
	Index   int    `json:"index"`
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Current bool   `json:"current,omitempty"`
	Default bool   `json:"default,omitempty"`
}

func languageJSON(app *App, idx int) LanguageJSON {
	tag, ok := app.Localizer.Tag(idx)
	if !ok {
		return LanguageJSON{Index: idx, Name: app.Localizer.Name(idx)}
	}
	return LanguageJSON{
		Index: idx,
		Tag:   tag.String(),
		Name:  app.Localizer.Name(idx),
	}
}

func newLanguagesCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language catalog",
		Long: `List the languages the language setting can select.

The default is the entry that best matches the system locale (or the
configured locale); it is used when no language has been saved yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			current, err := store.GetValue(settings.KeyLanguage)
			if err != nil {
				return err
			}
			def := app.Localizer.Default()

			langs := make([]LanguageJSON, 0, app.Localizer.Size())
			for i := 0; i < app.Localizer.Size(); i++ {
				l := languageJSON(app, i)
				l.Current = i == current
				l.Default = i == def
				langs = append(langs, l)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(langs)
			}
			for _, l := range langs {
				mark := " "
				if l.Current {
					mark = "*"
				}
				suffix := ""
				if l.Default {
					suffix = " (default)"
				}
				fmt.Fprintf(app.Out, "%s %d  %-8s %s%s\n", mark, l.Index, l.Tag, l.Name, suffix)
			}
			return nil
		},
	}
}
