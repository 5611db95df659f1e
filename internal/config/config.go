// Package config loads the viewer settings from YAML.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/render"
)

//go:embed schema.json
var schema string

// Frontends.
const (
	FrontendGUI = "gui"
	FrontendTUI = "tui"
)

type Config struct {
	Window        WindowConfig `yaml:"window" json:"window"`
	Scene         SceneConfig  `yaml:"scene" json:"scene"`
	TranslateStep float64      `yaml:"translate_step" json:"translate_step"`
	Frontend      string       `yaml:"frontend" json:"frontend"`
	FPS           int          `yaml:"fps" json:"fps"`
	LogLevel      string       `yaml:"log_level" json:"log_level"`
	// LogFile receives logs when set. The terminal frontend needs one since
	// it owns stdout.
	LogFile string `yaml:"log_file" json:"log_file"`
}

type WindowConfig struct {
	Title  string `yaml:"title" json:"title"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

type SceneConfig struct {
	Background RGB `yaml:"background" json:"background"`
	MeshColor  RGB `yaml:"mesh_color" json:"mesh_color"`
	// Light points from the scene towards the light; all zero means a
	// headlight at the camera.
	Light          [3]float64 `yaml:"light" json:"light"`
	Representation string     `yaml:"representation" json:"representation"`
	Shading        string     `yaml:"shading" json:"shading"`
	ShowAxes       bool       `yaml:"show_axes" json:"show_axes"`
}

// RGB is a colour as three 0-255 channels.
type RGB [3]int

// Color converts to a render colour, clamping each channel.
func (c RGB) Color() render.Color {
	ch := func(v int) uint8 { return uint8(min(max(v, 0), 255)) }
	return render.RGB(ch(c[0]), ch(c[1]), ch(c[2]))
}

// LightDirection returns the configured light as a vector.
func (s SceneConfig) LightDirection() math3d.Vec3 {
	return math3d.V3(s.Light[0], s.Light[1], s.Light[2])
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "STL Viewer",
			Width:  800,
			Height: 600,
		},
		Scene: SceneConfig{
			Background:     RGB{26, 26, 38},
			MeshColor:      RGB{230, 230, 230},
			Representation: "surface",
			Shading:        "flat",
		},
		TranslateStep: 1,
		Frontend:      FrontendGUI,
		FPS:           30,
		LogLevel:      "info",
	}
}

// Load reads path over the defaults, applies STLVIEW_* environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal yaml: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("STLVIEW_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("STLVIEW_LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := lookup("STLVIEW_FRONTEND"); ok {
		c.Frontend = strings.ToLower(v)
	}
	if v, ok := lookup("STLVIEW_FPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STLVIEW_FPS: %w", err)
		}
		c.FPS = n
	}
	return nil
}

// Validate checks the settings against the embedded JSON schema.
func (c *Config) Validate() error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal to json: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for _, e := range result.Errors() {
			sb.WriteString("\n- ")
			sb.WriteString(e.String())
		}
		return fmt.Errorf("config validation failed:%s", sb.String())
	}
	return nil
}

// Save writes the settings as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
