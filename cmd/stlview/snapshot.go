package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/stlview/internal/config"
	"github.com/taigrr/stlview/internal/viewer"
	"github.com/taigrr/stlview/pkg/scene"
)

var errNoModel = errors.New("snapshot needs a model path")

// renderSnapshot renders modelPath at the configured window size and writes
// the frame to out as PNG.
func renderSnapshot(cfg *config.Config, modelPath, out string, logger *zap.Logger) error {
	if modelPath == "" {
		return errNoModel
	}

	renderer := scene.NewRenderer()
	renderer.Background = cfg.Scene.Background.Color()
	renderer.Light = cfg.Scene.LightDirection()
	renderer.ShowAxes = cfg.Scene.ShowAxes

	window := scene.NewRenderWindow(cfg.Window.Width, cfg.Window.Height)
	ctrl := viewer.NewController(window, renderer, viewer.Controls{}, logger)
	ctrl.SetMeshColor(cfg.Scene.MeshColor.Color())
	if cfg.Scene.Representation == scene.Wireframe.String() {
		ctrl.ToggleRepresentation()
	}
	if cfg.Scene.Shading == "smooth" {
		ctrl.SetShading(scene.Smooth)
	}

	if err := ctrl.Load(modelPath); err != nil {
		return err
	}
	if err := window.Framebuffer().SavePNG(out); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	logger.Info("snapshot written", zap.String("path", out), zap.Uint64("frame", window.Frames()))
	return nil
}
