package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"settings-lite/internal/prefstore"
	"settings-lite/internal/settings"
)

func TestToggleFrameLimit_PersistsAcrossApps(t *testing.T) {
	for _, backend := range prefstore.Backends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			app := newTestAppIn(t, dir, backend)

			out, err := runCmd(t, app, "toggle", "frame-limit")
			if err != nil {
				t.Fatalf("toggle failed: %v", err)
			}
			if !strings.Contains(out, "Set FrameLimitSetting to 30 fps") {
				t.Errorf("unexpected output: %q", out)
			}
			if got := app.Renderer.State().TargetFrameRate; got != 30 {
				t.Errorf("renderer frame rate = %d, want 30", got)
			}
			app.Close()

			reopened := newTestAppIn(t, dir, backend)
			out, err = runCmd(t, reopened, "get", "frame-limit", "--json")
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			var got SettingJSON
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if got.Value != 30 {
				t.Errorf("reloaded frame limit = %d, want 30", got.Value)
			}
			if reopened.Renderer.State().TargetFrameRate != 30 {
				t.Errorf("reloaded renderer frame rate = %d, want 30", reopened.Renderer.State().TargetFrameRate)
			}
		})
	}
}

func TestCycleGraphics_Sequence(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	want := []string{"Low", "Medium", "High"}
	for i, label := range want {
		out, err := runCmd(t, app, "cycle", "graphics")
		if err != nil {
			t.Fatalf("cycle %d failed: %v", i, err)
		}
		if !strings.Contains(out, "to "+label) {
			t.Errorf("cycle %d output = %q, want %s", i, out, label)
		}
		if got := app.Renderer.State().QualityLevel; got != i {
			t.Errorf("cycle %d: renderer quality = %d, want %d", i, got, i)
		}
	}
}

func TestToggle_KindMismatch(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	_, err := runCmd(t, app, "toggle", "graphics")
	var mismatch *settings.KindMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("toggle graphics error = %v, want KindMismatchError", err)
	}

	_, err = runCmd(t, app, "cycle", "music")
	if !errors.As(err, &mismatch) {
		t.Errorf("cycle music error = %v, want KindMismatchError", err)
	}
}

func TestMutate_UnknownKey(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	for _, args := range [][]string{
		{"toggle", "brightness"},
		{"cycle", "brightness"},
		{"set", "brightness", "1"},
		{"switch", "brightness"},
		{"get", "brightness"},
	} {
		_, err := runCmd(t, app, args...)
		var unknown *settings.UnknownSettingError
		if !errors.As(err, &unknown) {
			t.Errorf("%v error = %v, want UnknownSettingError", args, err)
		}
	}
}

func TestSet(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	if _, err := runCmd(t, app, "set", "camera", "2d"); err != nil {
		t.Fatalf("set camera failed: %v", err)
	}
	if app.Renderer.State().Perspective {
		t.Error("camera should be orthographic after set camera 2d")
	}

	out, err := runCmd(t, app, "set", "language", "ko")
	if err != nil {
		t.Fatalf("set language failed: %v", err)
	}
	if !strings.Contains(out, "(ko)") {
		t.Errorf("unexpected output: %q", out)
	}
	if got := app.Localizer.Current(); got != 1 {
		t.Errorf("localizer current = %d, want 1", got)
	}

	v, ok, err := app.Prefs.Read(context.Background(), settings.KeyLanguage)
	if err != nil || !ok || v != 1 {
		t.Errorf("persisted language = %d, %v, %v; want 1", v, ok, err)
	}
}

func TestSet_Invalid(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	_, err := runCmd(t, app, "set", "frame-limit", "45")
	var invalid *settings.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("set frame-limit 45 error = %v, want InvalidValueError", err)
	}
	if invalid.Value != 45 {
		t.Errorf("InvalidValueError.Value = %d, want 45", invalid.Value)
	}

	if _, err := runCmd(t, app, "set", "language", "tlh"); err == nil {
		t.Error("set language to a tag outside the catalog should fail")
	}

	out, err := runCmd(t, app, "get", "frame-limit")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !strings.Contains(out, "= 60") {
		t.Errorf("frame limit changed after invalid set: %q", out)
	}
}

func TestSwitch_DispatchesByKind(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)

	if _, err := runCmd(t, app, "switch", "music"); err != nil {
		t.Fatalf("switch music failed: %v", err)
	}
	if !app.Mixer.State().MusicMuted {
		t.Error("music should be muted after switch")
	}

	if _, err := runCmd(t, app, "switch", "graphics"); err != nil {
		t.Fatalf("switch graphics failed: %v", err)
	}
	if got := app.Renderer.State().QualityLevel; got != settings.QualityLow {
		t.Errorf("quality after switch = %d, want %d", got, settings.QualityLow)
	}
}

func TestSwitch_LanguageWraps(t *testing.T) {
	app := newTestApp(t, prefstore.BackendYAML)
	last := len(app.Config.Languages) - 1

	if _, err := runCmd(t, app, "set", "language", app.Config.Languages[last]); err != nil {
		t.Fatalf("set language failed: %v", err)
	}
	if got := app.Localizer.Current(); got != last {
		t.Fatalf("localizer current = %d, want %d", got, last)
	}

	if _, err := runCmd(t, app, "switch", "language"); err != nil {
		t.Fatalf("switch language failed: %v", err)
	}
	if got := app.Localizer.Current(); got != 0 {
		t.Errorf("language after wrap = %d, want 0", got)
	}
}

func TestToggle_WriteFailureStillApplies(t *testing.T) {
	kv := newMapKV()
	app := newMemApp(t, kv)

	// Load defaults first so only the toggle fails.
	if _, err := runCmd(t, app, "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	kv.failWrite = errors.New("disk full")

	out, err := runCmd(t, app, "toggle", "music")
	var perr *settings.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("toggle error = %v, want PersistenceError", err)
	}
	if !strings.Contains(out, "(not saved)") {
		t.Errorf("expected not-saved notice, got %q", out)
	}
	if !app.Mixer.State().MusicMuted {
		t.Error("music should be muted even though the write failed")
	}

	out, err = runCmd(t, app, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "ToggleMusicSetting *") {
		t.Errorf("list should mark the unsaved setting: %q", out)
	}
}
