// Package viewer holds the window controller: it turns load, unload and
// translate requests into scene changes and keeps the action controls in
// step with whether a mesh is shown.
package viewer

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/models"
	"github.com/taigrr/stlview/pkg/render"
	"github.com/taigrr/stlview/pkg/scene"
)

// Control is a widget the controller switches on and off.
type Control interface {
	Enable()
	Disable()
	Disabled() bool
}

// Controls are the actions that only make sense with a mesh loaded.
// Nil entries are skipped.
type Controls struct {
	Unload     Control
	TranslateX Control
	TranslateY Control
}

func (c Controls) each(fn func(Control)) {
	for _, ctl := range []Control{c.Unload, c.TranslateX, c.TranslateY} {
		if ctl != nil {
			fn(ctl)
		}
	}
}

// Controller owns the displayed mesh. It is not safe for concurrent use;
// frontends call it from their UI goroutine.
type Controller struct {
	reader   *models.Reader
	renderer *scene.Renderer
	window   *scene.RenderWindow
	controls Controls
	logger   *zap.Logger

	actor *scene.Actor
	path  string

	meshColor      render.Color
	representation scene.Representation
	shading        scene.Shading

	// OnRender runs after every frame the controller renders.
	OnRender func()
}

// NewController wires a renderer into window and disables controls until a
// mesh is loaded.
func NewController(window *scene.RenderWindow, renderer *scene.Renderer, controls Controls, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	window.AddRenderer(renderer)

	c := &Controller{
		reader:    models.NewReader(),
		renderer:  renderer,
		window:    window,
		controls:  controls,
		logger:    logger,
		meshColor: scene.DefaultMeshColor,
	}
	c.setControlsEnabled(false)
	return c
}

// SetMeshColor sets the colour used for meshes loaded from now on and for
// the current one.
func (c *Controller) SetMeshColor(col render.Color) {
	c.meshColor = col
	if c.actor != nil {
		c.actor.Mapper().Color = col
	}
}

// Load reads path, replaces whatever is displayed with it and frames the
// camera on it. On error nothing changes.
func (c *Controller) Load(path string) error {
	prev := c.reader.FileName()
	c.reader.SetFileName(path)

	mesh, err := c.reader.Update()
	if err != nil {
		c.reader.SetFileName(prev)
		c.logger.Warn("load failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	mapper := scene.NewMapper(mesh)
	mapper.Color = c.meshColor
	mapper.Representation = c.representation
	mapper.Shading = c.shading
	actor := scene.NewActor(mapper)

	c.renderer.RemoveAllViewProps()
	c.renderer.AddActor(actor)
	c.renderer.ResetCamera()
	c.render()

	c.actor = actor
	c.path = path
	c.setControlsEnabled(true)

	c.logger.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return nil
}

// Unload removes the displayed mesh. It is a no-op with nothing loaded.
func (c *Controller) Unload() {
	if c.actor == nil {
		return
	}

	c.renderer.RemoveActor(c.actor)
	c.render()

	// Forget the file so loading it again re-reads it.
	c.reader.SetFileName("")
	c.actor = nil
	c.setControlsEnabled(false)

	c.logger.Info("mesh unloaded", zap.String("path", c.path))
	c.path = ""
}

// Translate places the mesh at offset (dx, dy, dz) from where it was
// loaded. Each call replaces the previous offset.
func (c *Controller) Translate(dx, dy, dz float64) {
	if c.actor == nil {
		return
	}

	t := scene.NewTransform()
	t.Translate(dx, dy, dz)
	c.actor.SetUserTransform(t)
	c.render()

	c.logger.Debug("mesh translated",
		zap.Float64("dx", dx), zap.Float64("dy", dy), zap.Float64("dz", dz))
}

// ToggleRepresentation switches between surface and wireframe drawing.
func (c *Controller) ToggleRepresentation() scene.Representation {
	if c.representation == scene.Surface {
		c.representation = scene.Wireframe
	} else {
		c.representation = scene.Surface
	}
	if c.actor != nil {
		c.actor.Mapper().Representation = c.representation
		c.render()
	}
	return c.representation
}

// SetShading selects flat or smooth lighting.
func (c *Controller) SetShading(s scene.Shading) {
	c.shading = s
	if c.actor != nil {
		c.actor.Mapper().Shading = s
		c.render()
	}
}

// Shading is the lighting mode for loaded meshes.
func (c *Controller) Shading() scene.Shading {
	return c.shading
}

// ResetView restores the default view direction and frames the scene.
func (c *Controller) ResetView() {
	c.renderer.ResetView()
	c.render()
}

// Orbit turns the camera about the focal point.
func (c *Controller) Orbit(azimuth, elevation float64) {
	if azimuth == 0 && elevation == 0 {
		return
	}
	c.renderer.Orbit(azimuth, elevation)
	c.render()
}

// Render redraws the window, for example after a resize.
func (c *Controller) Render() {
	c.render()
}

func (c *Controller) render() {
	c.window.Render()
	if c.OnRender != nil {
		c.OnRender()
	}
}

func (c *Controller) setControlsEnabled(enabled bool) {
	c.controls.each(func(ctl Control) {
		if enabled {
			ctl.Enable()
		} else {
			ctl.Disable()
		}
	})
}

// Path is the loaded file, or "" when nothing is loaded.
func (c *Controller) Path() string {
	return c.path
}

// Loaded reports whether a mesh is displayed.
func (c *Controller) Loaded() bool {
	return c.actor != nil
}

// Actor is the displayed actor, or nil.
func (c *Controller) Actor() *scene.Actor {
	return c.actor
}

// Renderer returns the renderer the controller draws with.
func (c *Controller) Renderer() *scene.Renderer {
	return c.renderer
}

// Window returns the render window.
func (c *Controller) Window() *scene.RenderWindow {
	return c.window
}

// Reader returns the mesh reader.
func (c *Controller) Reader() *models.Reader {
	return c.reader
}

// State is a copy of what the controller shows.
type State struct {
	Path            string
	Loaded          bool
	ControlsEnabled bool
	// Translation is the current user offset; HasTransform is false
	// until the first Translate after a load.
	Translation    math3d.Vec3
	HasTransform   bool
	Triangles      int
	Props          int
	Representation scene.Representation
	Frames         uint64
}

// Snapshot captures the current state.
func (c *Controller) Snapshot() State {
	s := State{
		Path:            c.path,
		Loaded:          c.actor != nil,
		ControlsEnabled: c.controlsEnabled(),
		Props:           len(c.renderer.Actors()),
		Representation:  c.representation,
		Frames:          c.window.Frames(),
	}
	if c.actor != nil {
		if t := c.actor.UserTransform(); t != nil {
			s.Translation = t.Position()
			s.HasTransform = true
		}
		if mesh := c.actor.Mapper().Input(); mesh != nil {
			s.Triangles = mesh.TriangleCount()
		}
	}
	return s
}

// controlsEnabled is true only when every control is enabled.
func (c *Controller) controlsEnabled() bool {
	enabled, seen := true, false
	c.controls.each(func(ctl Control) {
		seen = true
		if ctl.Disabled() {
			enabled = false
		}
	})
	if !seen {
		return c.actor != nil
	}
	return enabled
}
