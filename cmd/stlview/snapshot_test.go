package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/taigrr/stlview/internal/config"
)

func writeCube(t *testing.T) string {
	t.Helper()

	// Two faces of a unit cube are enough to fill the middle of the frame.
	tris := [][9]float32{
		{0, 0, 1, 1, 0, 1, 1, 1, 1},
		{0, 0, 1, 1, 1, 1, 0, 1, 1},
		{0, 0, 0, 0, 1, 0, 1, 1, 0},
		{0, 0, 0, 1, 1, 0, 1, 0, 0},
	}
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(&buf, binary.LittleEndian, [3]float32{})
		binary.Write(&buf, binary.LittleEndian, tri)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}

	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 200, 150
	out := filepath.Join(t.TempDir(), "cube.png")

	if err := renderSnapshot(cfg, writeCube(t), out, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("renderSnapshot: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("bounds = %v", b)
	}

	bg := cfg.Scene.Background.Color()
	r, g, b, _ := img.At(100, 75).RGBA()
	if uint8(r>>8) == bg.R && uint8(g>>8) == bg.G && uint8(b>>8) == bg.B {
		t.Error("centre pixel is background; mesh not drawn")
	}
}

func TestRenderSnapshotErrors(t *testing.T) {
	cfg := config.Default()
	logger := zaptest.NewLogger(t)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := renderSnapshot(cfg, "", out, logger); !errors.Is(err, errNoModel) {
		t.Errorf("err = %v, want errNoModel", err)
	}
	if err := renderSnapshot(cfg, filepath.Join(t.TempDir(), "missing.stl"), out, logger); err == nil {
		t.Error("expected error for a missing model")
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed snapshot left a file behind")
	}
}
