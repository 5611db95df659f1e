// Package gui is the desktop frontend: a Fyne window with the 3D viewport
// on the left and the action buttons on the right.
package gui

import (
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taigrr/stlview/internal/config"
	"github.com/taigrr/stlview/internal/viewer"
	"github.com/taigrr/stlview/pkg/scene"
)

// orbitPerUnit is the camera turn in radians per device-independent pixel
// of drag.
const orbitPerUnit = 0.01

// Window is the main application window.
type Window struct {
	win    fyne.Window
	cfg    *config.Config
	logger *zap.Logger
	ctrl   *viewer.Controller

	viewport   *viewport
	status     *widget.Label
	loadBtn    *widget.Button
	unloadBtn  *widget.Button
	translateX *widget.Button
	translateY *widget.Button

	// Drag events arrive faster than frames render; turns accumulate here
	// until the limiter allows a frame.
	orbitLimiter         *rate.Limiter
	pendingAz, pendingEl float64

	lastDir string
}

// New builds the window and its controller. Nothing is shown until
// ShowAndRun.
func New(a fyne.App, cfg *config.Config, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Window{
		win:          a.NewWindow(cfg.Window.Title),
		cfg:          cfg,
		logger:       logger,
		status:       widget.NewLabel("No file loaded"),
		orbitLimiter: rate.NewLimiter(rate.Limit(cfg.FPS), 1),
	}

	step := cfg.TranslateStep
	w.loadBtn = widget.NewButton("Load STL File", w.showOpenDialog)
	w.unloadBtn = widget.NewButton("Unload STL File", func() { w.ctrl.Unload() })
	w.translateX = widget.NewButton("Translate X", func() { w.ctrl.Translate(step, 0, 0) })
	w.translateY = widget.NewButton("Translate Y", func() { w.ctrl.Translate(0, step, 0) })

	renderer := scene.NewRenderer()
	renderer.Background = cfg.Scene.Background.Color()
	renderer.Light = cfg.Scene.LightDirection()
	renderer.ShowAxes = cfg.Scene.ShowAxes

	w.ctrl = viewer.NewController(
		scene.NewRenderWindow(cfg.Window.Width, cfg.Window.Height),
		renderer,
		viewer.Controls{Unload: w.unloadBtn, TranslateX: w.translateX, TranslateY: w.translateY},
		logger,
	)
	w.ctrl.SetMeshColor(cfg.Scene.MeshColor.Color())
	if cfg.Scene.Representation == scene.Wireframe.String() {
		w.ctrl.ToggleRepresentation()
	}
	if cfg.Scene.Shading == "smooth" {
		w.ctrl.SetShading(scene.Smooth)
	}

	w.viewport = newViewport(w.generate)
	w.viewport.onDrag = w.dragged
	w.viewport.onDragEnd = w.flushOrbit
	w.ctrl.OnRender = w.rendered

	buttons := container.NewVBox(w.loadBtn, w.unloadBtn, w.translateX, w.translateY)
	w.win.SetContent(container.NewBorder(nil, w.status, nil, buttons, w.viewport))
	w.win.Canvas().SetOnTypedKey(w.typedKey)
	w.win.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	return w
}

// Controller exposes the window controller.
func (w *Window) Controller() *viewer.Controller {
	return w.ctrl
}

// ShowAndRun shows the window and runs the app until it closes.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

// LoadFile loads path and reports failures in a dialog.
func (w *Window) LoadFile(path string) {
	if err := w.ctrl.Load(path); err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	w.lastDir = filepath.Dir(path)
}

func (w *Window) showOpenDialog() {
	fd := dialog.NewFileOpen(w.fileChosen, w.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".stl"}))
	if w.lastDir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(w.lastDir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

// fileChosen handles the open dialog's result. A nil reader means the
// dialog was cancelled.
func (w *Window) fileChosen(reader fyne.URIReadCloser, err error) {
	if err != nil {
		w.logger.Warn("file dialog", zap.Error(err))
		dialog.ShowError(err, w.win)
		return
	}
	if reader == nil {
		return
	}
	path := reader.URI().Path()
	reader.Close()
	w.LoadFile(path)
}

// generate is the raster callback. It renders only when the pixel size
// changed; otherwise it returns the frame the controller last drew.
func (w *Window) generate(width, height int) image.Image {
	rw := w.ctrl.Window()
	if cw, ch := rw.Size(); cw != width || ch != height || rw.Frames() == 0 {
		rw.SetSize(width, height)
		rw.Render()
	}
	return rw.Image()
}

func (w *Window) rendered() {
	w.viewport.raster.Refresh()
	w.status.SetText(w.statusText())
}

func (w *Window) statusText() string {
	s := w.ctrl.Snapshot()
	if !s.Loaded {
		return "No file loaded"
	}
	text := fmt.Sprintf("%s  |  %d triangles", filepath.Base(s.Path), s.Triangles)
	if s.HasTransform {
		text += fmt.Sprintf("  |  offset (%g, %g, %g)", s.Translation.X, s.Translation.Y, s.Translation.Z)
	}
	return text
}

func (w *Window) dragged(dx, dy float32) {
	w.pendingAz -= float64(dx) * orbitPerUnit
	w.pendingEl += float64(dy) * orbitPerUnit
	if w.orbitLimiter.Allow() {
		w.flushOrbit()
	}
}

func (w *Window) flushOrbit() {
	az, el := w.pendingAz, w.pendingEl
	w.pendingAz, w.pendingEl = 0, 0
	w.ctrl.Orbit(az, el)
}

func (w *Window) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyR:
		w.ctrl.ResetView()
	case fyne.KeyW:
		rep := w.ctrl.ToggleRepresentation()
		w.logger.Debug("representation changed", zap.Stringer("representation", rep))
	}
}
