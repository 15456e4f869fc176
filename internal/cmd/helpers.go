package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"settings-lite/internal/settings"
)

// keyAliases maps short command-line names to setting keys.
var keyAliases = map[string]string{
	"graphics":    settings.KeyGraphicsQuality,
	"quality":     settings.KeyGraphicsQuality,
	"frame-limit": settings.KeyFrameLimit,
	"fps":         settings.KeyFrameLimit,
	"camera":      settings.KeyCameraProjection,
	"projection":  settings.KeyCameraProjection,
	"music":       settings.KeyMusic,
	"sfx":         settings.KeySFX,
	"language":    settings.KeyLanguage,
	"lang":        settings.KeyLanguage,
}

var qualityLabels = []string{"Low", "Medium", "High"}

// resolveKey maps a full key, an alias or a case-insensitive key to a
// registered setting.
func resolveKey(app *App, arg string) (settings.Definition, error) {
	if def, ok := app.Definition(arg); ok {
		return def, nil
	}
	if key, ok := keyAliases[strings.ToLower(arg)]; ok {
		if def, ok := app.Definition(key); ok {
			return def, nil
		}
	}
	for _, def := range app.Defs {
		if strings.EqualFold(def.Key, arg) {
			return def, nil
		}
	}
	return settings.Definition{}, &settings.UnknownSettingError{Key: arg}
}

// legalValues enumerates the domain of def.
func legalValues(def settings.Definition) []int {
	switch def.Kind {
	case settings.KindBinary:
		return []int{def.Values[0], def.Values[1]}
	case settings.KindCyclic:
		return seq(def.Size)
	case settings.KindCatalog:
		if def.Catalog != nil {
			return seq(def.Catalog.Size())
		}
	}
	return nil
}

func seq(n int) []int {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i
	}
	return vals
}

// describe returns a human label for v, e.g. "High" or "60 fps".
func describe(app *App, key string, v int) string {
	switch key {
	case settings.KeyGraphicsQuality:
		if v >= 0 && v < len(qualityLabels) {
			return qualityLabels[v]
		}
	case settings.KeyFrameLimit:
		return fmt.Sprintf("%d fps", v)
	case settings.KeyCameraProjection:
		if v == settings.ProjectionPerspective {
			return "3D"
		}
		return "2D"
	case settings.KeyMusic, settings.KeySFX:
		if v == settings.On {
			return "on"
		}
		return "off"
	case settings.KeyLanguage:
		if app.Localizer != nil {
			if tag, ok := app.Localizer.Tag(v); ok {
				return fmt.Sprintf("%s (%s)", app.Localizer.Name(v), tag)
			}
		}
	}
	return strconv.Itoa(v)
}

// parseValue accepts an integer, a label as printed by describe, or for the
// language setting a language tag.
func parseValue(app *App, def settings.Definition, s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	if def.Key == settings.KeyLanguage && app.Localizer != nil {
		if idx, ok := app.Localizer.Index(s); ok {
			return idx, nil
		}
	}
	for _, v := range legalValues(def) {
		label := describe(app, def.Key, v)
		if strings.EqualFold(label, s) || strings.EqualFold(strings.Fields(label)[0], s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("setting %q: cannot parse %q (allowed: %s)", def.Key, s, def.Domain())
}

// SettingJSON is the JSON output format of a single setting.
type SettingJSON struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Value   int    `json:"value"`
	Label   string `json:"label"`
	Default int    `json:"default"`
	Domain  string `json:"domain"`
	Pending bool   `json:"pending,omitempty"`
}

func settingJSON(app *App, store *settings.Store, def settings.Definition) (SettingJSON, error) {
	v, err := store.GetValue(def.Key)
	if err != nil {
		return SettingJSON{}, err
	}
	pending := false
	for _, k := range store.Pending() {
		if k == def.Key {
			pending = true
		}
	}
	return SettingJSON{
		Key:     def.Key,
		Kind:    def.Kind.String(),
		Value:   v,
		Label:   describe(app, def.Key, v),
		Default: def.DefaultValue(),
		Domain:  def.Domain(),
		Pending: pending,
	}, nil
}

// reportChange prints the outcome of a mutation. A failed write still
// changed the value in memory and in the subsystems, so the new value is
// printed before the error is returned.
func reportChange(app *App, store *settings.Store, def settings.Definition, v int, err error) error {
	var perr *settings.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		return err
	}

	if app.JSON {
		out, jerr := settingJSON(app, store, def)
		if jerr != nil {
			return jerr
		}
		if encErr := json.NewEncoder(app.Out).Encode(out); encErr != nil {
			return encErr
		}
		return err
	}

	if perr != nil {
		fmt.Fprintf(app.Out, "%s Set %s to %s (not saved)\n", app.WarnColor("!"), def.Key, describe(app, def.Key, v))
		return err
	}
	fmt.Fprintf(app.Out, "%s Set %s to %s\n", app.SuccessColor("✓"), def.Key, describe(app, def.Key, v))
	return nil
}
