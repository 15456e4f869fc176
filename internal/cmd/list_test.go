package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"settings-lite/internal/prefstore"
	"settings-lite/internal/settings"
)

func TestList_FreshDirConvergesToDefaults(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	out, err := runCmd(t, app, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{
		"GraphicsQualitySetting", "High",
		"FrameLimitSetting", "60 fps",
		"CameraProjectionSetting", "3D",
		"ToggleMusicSetting", "ToggleSfxSetting",
		"LanguageSetting", "English (en)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	ctx := context.Background()
	wantPersisted := map[string]int{
		settings.KeyGraphicsQuality:  settings.QualityHigh,
		settings.KeyFrameLimit:       60,
		settings.KeyCameraProjection: settings.ProjectionPerspective,
		settings.KeyMusic:            settings.On,
		settings.KeySFX:              settings.On,
		settings.KeyLanguage:         0,
	}
	for key, want := range wantPersisted {
		v, ok, err := app.Prefs.Read(ctx, key)
		if err != nil || !ok {
			t.Errorf("%s not persisted: ok=%v err=%v", key, ok, err)
			continue
		}
		if v != want {
			t.Errorf("%s persisted as %d, want %d", key, v, want)
		}
	}
}

func TestList_JSON(t *testing.T) {
	app := newTestApp(t, prefstore.BackendDir)

	out, err := runCmd(t, app, "list", "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var views []SettingJSON
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(views) != 6 {
		t.Fatalf("got %d settings, want 6", len(views))
	}
	if views[0].Key != settings.KeyGraphicsQuality || views[0].Kind != "cyclic" || views[0].Domain != "0..2" {
		t.Errorf("unexpected first setting: %+v", views[0])
	}
	if views[1].Domain != "{60, 30}" {
		t.Errorf("frame limit domain = %q", views[1].Domain)
	}
}

func TestGet_UsesStoredValue(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)
	if err := app.Prefs.Write(context.Background(), settings.KeyGraphicsQuality, settings.QualityMedium); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := runCmd(t, app, "get", "graphics")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(out) != "GraphicsQualitySetting = 1 (Medium)" {
		t.Errorf("get output = %q", out)
	}
	if got := app.Renderer.State().QualityLevel; got != settings.QualityMedium {
		t.Errorf("renderer quality = %d, want %d", got, settings.QualityMedium)
	}
}

func TestStatus_JSON(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	out, err := runCmd(t, app, "status", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var st StatusJSON
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if st.Backend != prefstore.BackendYAML {
		t.Errorf("backend = %q", st.Backend)
	}
	if st.Renderer.QualityLevel != settings.QualityHigh || st.Renderer.TargetFrameRate != 60 || !st.Renderer.Perspective {
		t.Errorf("renderer = %+v", st.Renderer)
	}
	if st.Mixer.MusicMuted || st.Mixer.SFXMuted {
		t.Errorf("mixer = %+v, want both unmuted", st.Mixer)
	}
	if st.Language.Tag != "en" {
		t.Errorf("language = %+v, want en", st.Language)
	}
	if len(st.Pending) != 0 {
		t.Errorf("pending = %v", st.Pending)
	}
}

func TestStatus_SavedTimes(t *testing.T) {
	app := newTestApp(t, prefstore.BackendSQLite)

	out, err := runCmd(t, app, "status", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var st StatusJSON
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	for _, def := range app.Defs {
		if at, ok := st.Saved[def.Key]; !ok || at.IsZero() {
			t.Errorf("saved[%s] = %v, %v", def.Key, at, ok)
		}
	}

	app = newTestApp(t, prefstore.BackendYAML)
	out, err = runCmd(t, app, "status", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	st = StatusJSON{}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(st.Saved) != 0 {
		t.Errorf("yaml backend saved = %v, want none", st.Saved)
	}
}

func TestStatus_Text(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	if _, err := runCmd(t, app, "toggle", "sfx"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	out, err := runCmd(t, app, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Renderer:", "perspective", "Mixer:", "muted", "Localizer:"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestLanguages(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	out, err := runCmd(t, app, "languages", "--json")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	var langs []LanguageJSON
	if err := json.Unmarshal([]byte(out), &langs); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(langs) != len(app.Config.Languages) {
		t.Fatalf("got %d languages, want %d", len(langs), len(app.Config.Languages))
	}
	if !langs[0].Current || !langs[0].Default {
		t.Errorf("first language should be current and default: %+v", langs[0])
	}
	if langs[1].Tag != "ko" || langs[1].Name != "한국어" {
		t.Errorf("second language = %+v", langs[1])
	}

	out, err = runCmd(t, app, "languages")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	if !strings.Contains(out, "* 0") || !strings.Contains(out, "(default)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
