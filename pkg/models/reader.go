package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoFileName is returned by Reader.Update before a file name is set.
	ErrNoFileName = errors.New("models: no file name set")
	// ErrUnsupportedFormat is returned for extensions no loader handles.
	ErrUnsupportedFormat = errors.New("models: unsupported file format")
)

// Reader is a reusable mesh file reader. It re-reads its file only when the
// name, size or modification time changes.
type Reader struct {
	fileName string

	output  *Mesh
	outName string
	outSize int64
	outMod  time.Time
}

// NewReader creates a reader with no file name.
func NewReader() *Reader {
	return &Reader{}
}

// SetFileName selects the file the next Update reads. An empty name resets
// the reader and drops its cached output.
func (r *Reader) SetFileName(name string) {
	r.fileName = name
	if name == "" {
		r.output = nil
		r.outName = ""
	}
}

// FileName is the current file name.
func (r *Reader) FileName() string {
	return r.fileName
}

// Output is the mesh from the last successful Update, or nil.
func (r *Reader) Output() *Mesh {
	return r.output
}

// Update reads the current file and returns its mesh. The loader is chosen
// by extension. A failed update keeps the previous output.
func (r *Reader) Update() (*Mesh, error) {
	if r.fileName == "" {
		return nil, ErrNoFileName
	}

	info, err := os.Stat(r.fileName)
	if err != nil {
		return nil, fmt.Errorf("stat mesh: %w", err)
	}
	if r.output != nil && r.outName == r.fileName &&
		r.outSize == info.Size() && r.outMod.Equal(info.ModTime()) {
		return r.output, nil
	}

	mesh, err := loadByExtension(r.fileName)
	if err != nil {
		return nil, err
	}

	r.output = mesh
	r.outName = r.fileName
	r.outSize = info.Size()
	r.outMod = info.ModTime()
	return mesh, nil
}

func loadByExtension(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return LoadSTL(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
