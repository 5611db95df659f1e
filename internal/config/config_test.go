package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/stlview/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stlview.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Window.Title != "STL Viewer" || cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.TranslateStep != 1 {
		t.Errorf("TranslateStep = %v, want 1", cfg.TranslateStep)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}

	cfg, err = Load("")
	if err != nil || cfg.Frontend != FrontendGUI {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 1024
scene:
  mesh_color: [255, 128, 0]
  representation: wireframe
translate_step: 2.5
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 600 || cfg.Window.Title != "STL Viewer" {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Scene.MeshColor.Color() != render.RGB(255, 128, 0) {
		t.Errorf("mesh colour = %v", cfg.Scene.MeshColor)
	}
	if cfg.Scene.Representation != "wireframe" || cfg.TranslateStep != 2.5 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "window: [", "unmarshal yaml"},
		{"tiny window", "window:\n  width: 10\n", "width"},
		{"colour out of range", "scene:\n  background: [0, 0, 300]\n", "background"},
		{"unknown frontend", "frontend: web\n", "frontend"},
		{"zero step", "translate_step: 0\n", "translate_step"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"bad shading", "scene:\n  shading: phong\n", "shading"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadReadError(t *testing.T) {
	// A directory cannot be read as a file.
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STLVIEW_LOG_LEVEL": "WARN",
		"STLVIEW_FRONTEND":  "tui",
		"STLVIEW_FPS":       "20",
		"STLVIEW_LOG_FILE":  "/tmp/stlview.log",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" || cfg.Frontend != FrontendTUI || cfg.FPS != 20 || cfg.LogFile != "/tmp/stlview.log" {
		t.Errorf("cfg = %+v", cfg)
	}

	env["STLVIEW_FPS"] = "fast"
	if err := Default().applyEnv(lookup); err == nil {
		t.Error("expected error for non-numeric FPS")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scene.Light = [3]float64{0, 1, 1}
	cfg.Scene.ShowAxes = true
	path := filepath.Join(t.TempDir(), "out.yaml")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
	if !got.Scene.LightDirection().ApproxEqual(cfg.Scene.LightDirection(), 0) {
		t.Error("light direction differs")
	}
}

func TestRGBColorClamps(t *testing.T) {
	if got := (RGB{-5, 128, 999}).Color(); got != render.RGB(0, 128, 255) {
		t.Errorf("Color = %v", got)
	}
}
