package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSTL(t *testing.T, name string, tris [][3][3]float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, binarySTL("", tris), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaderNoFileName(t *testing.T) {
	r := NewReader()
	if _, err := r.Update(); !errors.Is(err, ErrNoFileName) {
		t.Errorf("err = %v, want ErrNoFileName", err)
	}
}

func TestReaderUpdateCaches(t *testing.T) {
	path := writeSTL(t, "part.stl", quad)

	r := NewReader()
	r.SetFileName(path)
	if r.FileName() != path {
		t.Errorf("FileName = %q", r.FileName())
	}

	first, err := r.Update()
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	second, err := r.Update()
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first != second {
		t.Error("unchanged file should return the cached mesh")
	}
	if r.Output() != first {
		t.Error("Output should be the last mesh")
	}

	// Rewrite with one more triangle and a later mtime.
	tris := append(append([][3][3]float32{}, quad...), [3][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	if err := os.WriteFile(path, binarySTL("", tris), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	third, err := r.Update()
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if third == first || third.TriangleCount() != 3 {
		t.Errorf("changed file not re-read: %d triangles", third.TriangleCount())
	}
}

func TestReaderResetClearsOutput(t *testing.T) {
	r := NewReader()
	r.SetFileName(writeSTL(t, "part.stl", quad))
	if _, err := r.Update(); err != nil {
		t.Fatal(err)
	}

	r.SetFileName("")

	if r.FileName() != "" || r.Output() != nil {
		t.Error("empty file name should reset the reader")
	}
	if _, err := r.Update(); !errors.Is(err, ErrNoFileName) {
		t.Errorf("err = %v, want ErrNoFileName", err)
	}
}

func TestReaderFailureKeepsOutput(t *testing.T) {
	r := NewReader()
	r.SetFileName(writeSTL(t, "good.stl", quad))
	good, err := r.Update()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", filepath.Join(t.TempDir(), "missing.stl"), os.ErrNotExist},
		{"empty", writeSTL(t, "empty.stl", nil), ErrEmptyMesh},
		{"unsupported", writeSTL(t, "part.obj", quad), ErrUnsupportedFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r.SetFileName(tc.path)
			if _, err := r.Update(); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			if r.Output() != good {
				t.Error("failed update replaced the output")
			}
		})
	}
}
