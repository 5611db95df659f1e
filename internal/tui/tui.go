// Package tui is the terminal frontend. It draws the viewport with half
// block characters and maps keys to the same actions as the desktop
// buttons.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/stlview/internal/config"
	"github.com/taigrr/stlview/internal/viewer"
	"github.com/taigrr/stlview/pkg/render"
	"github.com/taigrr/stlview/pkg/scene"
)

const (
	// orbitPerCell is the turn impulse in radians per cell of mouse drag.
	orbitPerCell = 0.03
	// keyImpulse is the turn impulse of one arrow key press.
	keyImpulse = 0.05
)

var (
	statusFg = render.RGB(220, 220, 220)
	statusBg = render.RGB(40, 40, 56)
)

// App is a terminal viewer session.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	ctrl   *viewer.Controller
	orbit  *orbit

	// path is the mesh named on the command line, loaded with "o".
	path     string
	controls []*keyControl

	width, height int
	mouseDown     bool
	lastX, lastY  int

	message string
	dirty   bool
	quit    bool
}

// New builds a session for cfg. path may be empty.
func New(cfg *config.Config, path string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	unload := &keyControl{key: "u", label: "unload"}
	tx := &keyControl{key: "x", label: "move x"}
	ty := &keyControl{key: "y", label: "move y"}

	renderer := scene.NewRenderer()
	renderer.Background = cfg.Scene.Background.Color()
	renderer.Light = cfg.Scene.LightDirection()
	renderer.ShowAxes = cfg.Scene.ShowAxes

	a := &App{
		cfg:      cfg,
		logger:   logger,
		orbit:    newOrbit(cfg.FPS),
		path:     path,
		controls: []*keyControl{unload, tx, ty},
		dirty:    true,
	}
	a.ctrl = viewer.NewController(
		scene.NewRenderWindow(0, 0),
		renderer,
		viewer.Controls{Unload: unload, TranslateX: tx, TranslateY: ty},
		logger,
	)
	a.ctrl.SetMeshColor(cfg.Scene.MeshColor.Color())
	if cfg.Scene.Representation == scene.Wireframe.String() {
		a.ctrl.ToggleRepresentation()
	}
	if cfg.Scene.Shading == "smooth" {
		a.ctrl.SetShading(scene.Smooth)
	}
	a.ctrl.OnRender = func() { a.dirty = true }
	return a
}

// Controller exposes the window controller.
func (a *App) Controller() *viewer.Controller {
	return a.ctrl
}

// Run takes over the terminal until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			a.logger.Warn("terminal shutdown", zap.Error(err))
		}
	}()

	a.resize(term, width, height)
	if a.path != "" {
		a.load()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Only the loop below touches the controller.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if size, ok := ev.(uv.WindowSizeEvent); ok {
				a.resize(term, size.Width, size.Height)
				continue
			}
			a.handle(ev)
			if a.quit {
				return nil
			}
		case <-ticker.C:
			a.tick()
			if !a.dirty {
				continue
			}
			if err := a.draw(term); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// resize fits the render window to the terminal, keeping the last row for
// the status line. Each cell shows two pixel rows.
func (a *App) resize(term *uv.Terminal, width, height int) {
	a.width, a.height = width, height
	term.Erase()
	term.Resize(width, height)
	a.ctrl.Window().SetSize(width, max(height-1, 0)*2)
	a.ctrl.Render()
}

func (a *App) draw(term *uv.Terminal) error {
	a.ctrl.Window().Framebuffer().Draw(term, uv.Rect(0, 0, a.width, max(a.height-1, 0)))
	if a.height > 0 {
		render.DrawText(term, 0, a.height-1, a.width, a.statusLine(), statusFg, statusBg)
	}
	a.dirty = false
	return term.Display()
}

func (a *App) statusLine() string {
	return statusLine(a.ctrl.Snapshot(), a.controls, a.path != "", a.message)
}

// tick advances the orbit spring one frame.
func (a *App) tick() {
	az, el := a.orbit.step()
	a.ctrl.Orbit(az, el)
}

func (a *App) load() {
	if err := a.ctrl.Load(a.path); err != nil {
		a.setMessage(err.Error())
		return
	}
	a.setMessage("loaded " + filepath.Base(a.path))
}

func (a *App) setMessage(msg string) {
	a.message = msg
	a.dirty = true
}

// keymap lists the keys in the order they are matched.
var keymap = []string{
	"escape", "ctrl+c", "q",
	"o", "u", "x", "y", "r", "w", "s", "a", "space",
	"left", "right", "up", "down",
}

func (a *App) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		for _, k := range keymap {
			if ev.MatchString(k) {
				a.press(k)
				return
			}
		}

	case uv.MouseClickEvent:
		a.mouseDown = true
		a.lastX, a.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		a.mouseDown = false

	case uv.MouseMotionEvent:
		if a.mouseDown {
			a.drag(ev.X-a.lastX, ev.Y-a.lastY)
			a.lastX, a.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.orbit.impulse(0, keyImpulse)
		case uv.MouseWheelDown:
			a.orbit.impulse(0, -keyImpulse)
		}
	}
}

// drag turns the camera as if grabbing the object.
func (a *App) drag(dx, dy int) {
	a.orbit.impulse(-float64(dx)*orbitPerCell, float64(dy)*orbitPerCell)
}

// errNoPath is shown when "o" is pressed without a command-line file.
var errNoPath = errors.New("no file given on the command line")

// press runs the action bound to key.
func (a *App) press(key string) {
	step := a.cfg.TranslateStep

	switch key {
	case "escape", "ctrl+c", "q":
		a.quit = true
	case "o":
		if a.path == "" {
			a.setMessage(errNoPath.Error())
			return
		}
		a.load()
	case "u":
		if a.controls[0].Disabled() {
			return
		}
		a.ctrl.Unload()
		a.setMessage("")
	case "x":
		if a.controls[1].Disabled() {
			return
		}
		a.ctrl.Translate(step, 0, 0)
	case "y":
		if a.controls[2].Disabled() {
			return
		}
		a.ctrl.Translate(0, step, 0)
	case "r":
		a.orbit.reset()
		a.ctrl.ResetView()
	case "w":
		a.ctrl.ToggleRepresentation()
	case "s":
		a.toggleShading()
	case "a":
		r := a.ctrl.Renderer()
		r.ShowAxes = !r.ShowAxes
		a.ctrl.Render()
	case "space":
		a.orbit.impulse((rand.Float64()-0.5)*0.3, (rand.Float64()-0.5)*0.3)
	case "left":
		a.orbit.impulse(keyImpulse, 0)
	case "right":
		a.orbit.impulse(-keyImpulse, 0)
	case "up":
		a.orbit.impulse(0, -keyImpulse)
	case "down":
		a.orbit.impulse(0, keyImpulse)
	}
}

func (a *App) toggleShading() {
	if a.ctrl.Shading() == scene.Smooth {
		a.ctrl.SetShading(scene.Flat)
	} else {
		a.ctrl.SetShading(scene.Smooth)
	}
}
