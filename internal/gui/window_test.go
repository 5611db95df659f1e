package gui

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"go.uber.org/zap/zaptest"

	"github.com/taigrr/stlview/internal/config"
	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/scene"
)

func writeSTL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, [12]float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(0))

	path := filepath.Join(t.TempDir(), "part.stl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestWindow(t *testing.T) *Window {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return New(a, config.Default(), zaptest.NewLogger(t))
}

func assertEnabled(t *testing.T, w *Window, want bool) {
	t.Helper()
	if w.loadBtn.Disabled() {
		t.Error("load button must stay enabled")
	}
	buttons := map[string]bool{
		"unload":      w.unloadBtn.Disabled(),
		"translate x": w.translateX.Disabled(),
		"translate y": w.translateY.Disabled(),
	}
	for name, disabled := range buttons {
		if disabled == want {
			t.Errorf("%s disabled = %v, want %v", name, disabled, !want)
		}
	}
}

func TestWindowLayout(t *testing.T) {
	w := newTestWindow(t)

	if w.win.Title() != "STL Viewer" {
		t.Errorf("title = %q", w.win.Title())
	}
	labels := []string{w.loadBtn.Text, w.unloadBtn.Text, w.translateX.Text, w.translateY.Text}
	want := []string{"Load STL File", "Unload STL File", "Translate X", "Translate Y"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("button %d = %q, want %q", i, labels[i], want[i])
		}
	}
	assertEnabled(t, w, false)
}

func TestWindowButtonsFollowController(t *testing.T) {
	w := newTestWindow(t)

	w.LoadFile(writeSTL(t))
	assertEnabled(t, w, true)
	if w.status.Text == "No file loaded" {
		t.Error("status not updated after load")
	}

	test.Tap(w.translateX)
	test.Tap(w.translateY)
	s := w.Controller().Snapshot()
	if !s.Translation.ApproxEqual(math3d.V3(0, 1, 0), 1e-12) {
		t.Errorf("translation = %v, want (0, 1, 0)", s.Translation)
	}

	test.Tap(w.unloadBtn)
	assertEnabled(t, w, false)
	if w.Controller().Loaded() {
		t.Error("still loaded after unload")
	}

	// Disabled buttons ignore taps.
	test.Tap(w.translateX)
	if w.Controller().Snapshot().HasTransform {
		t.Error("translate ran while disabled")
	}
}

func TestWindowLoadErrorKeepsState(t *testing.T) {
	w := newTestWindow(t)

	w.LoadFile(filepath.Join(t.TempDir(), "missing.stl"))

	assertEnabled(t, w, false)
	if w.lastDir != "" {
		t.Errorf("lastDir = %q after failed load", w.lastDir)
	}
}

type fileReader struct {
	*bytes.Reader
	uri    fyne.URI
	closed bool
}

func (r *fileReader) URI() fyne.URI { return r.uri }
func (r *fileReader) Close() error  { r.closed = true; return nil }

func TestWindowFileChosen(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		w := newTestWindow(t)
		frames := w.Controller().Window().Frames()

		w.fileChosen(nil, nil)

		assertEnabled(t, w, false)
		if w.Controller().Window().Frames() != frames {
			t.Error("cancel rendered a frame")
		}
		if top := w.win.Canvas().Overlays().Top(); top != nil {
			t.Error("cancel opened a dialog")
		}
	})

	t.Run("dialog error", func(t *testing.T) {
		w := newTestWindow(t)

		w.fileChosen(nil, errors.New("permission denied"))

		assertEnabled(t, w, false)
		if top := w.win.Canvas().Overlays().Top(); top == nil {
			t.Error("error not shown")
		}
	})

	t.Run("file picked", func(t *testing.T) {
		w := newTestWindow(t)
		path := writeSTL(t)
		r := &fileReader{Reader: bytes.NewReader(nil), uri: storage.NewFileURI(path)}

		w.fileChosen(r, nil)

		if !r.closed {
			t.Error("reader not closed")
		}
		assertEnabled(t, w, true)
		if w.Controller().Path() != path || w.lastDir != filepath.Dir(path) {
			t.Errorf("path = %q, lastDir = %q", w.Controller().Path(), w.lastDir)
		}
	})
}

func TestWindowGenerateResizes(t *testing.T) {
	w := newTestWindow(t)

	img := w.generate(120, 90)
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Errorf("bounds = %v", b)
	}
	frames := w.Controller().Window().Frames()

	w.generate(120, 90)
	if w.Controller().Window().Frames() != frames {
		t.Error("same size should reuse the last frame")
	}
}

func TestWindowDragAndKeys(t *testing.T) {
	w := newTestWindow(t)
	w.LoadFile(writeSTL(t))
	cam := w.Controller().Renderer().Camera()
	start := cam.Position

	w.dragged(30, 0)
	w.dragged(30, 10)
	w.flushOrbit()
	if cam.Position.ApproxEqual(start, 1e-9) {
		t.Error("drag did not orbit")
	}
	if w.pendingAz != 0 || w.pendingEl != 0 {
		t.Error("pending orbit not flushed")
	}

	w.typedKey(&fyne.KeyEvent{Name: fyne.KeyR})
	if !cam.DirectionOfProjection().ApproxEqual(math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("reset view direction = %v", cam.DirectionOfProjection())
	}

	w.typedKey(&fyne.KeyEvent{Name: fyne.KeyW})
	if w.Controller().Actor().Mapper().Representation != scene.Wireframe {
		t.Error("W should switch to wireframe")
	}
}
