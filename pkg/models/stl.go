package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/stlview/pkg/math3d"
)

var (
	// ErrEmptyMesh is returned for files that parse but hold no usable triangles.
	ErrEmptyMesh = errors.New("stl: no triangles")
	// ErrTruncated is returned when a binary body is shorter than its
	// declared triangle count.
	ErrTruncated = errors.New("stl: truncated binary body")
	// ErrInvalidCoordinate is returned for NaN or infinite vertex coordinates.
	ErrInvalidCoordinate = errors.New("stl: non-finite coordinate")
)

const (
	stlHeaderSize = 80
	stlPrefixSize = stlHeaderSize + 4
	// normal, three vertices, attribute byte count
	stlRecordSize = 4*3*4 + 2
)

// LoadSTL reads an ASCII or binary STL file.
func LoadSTL(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stl: %w", err)
	}
	defer f.Close()

	mesh, err := ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if mesh.Name == "" {
		mesh.Name = filepath.Base(path)
	}
	return mesh, nil
}

// ReadSTL parses STL data, detecting the ASCII or binary encoding.
//
// A body whose size matches the binary triangle count is binary even when the
// header starts with "solid", which many exporters write. Data that looks like
// ASCII but fails to parse as it is tried as binary before giving up.
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) >= stlPrefixSize {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize:stlPrefixSize])
		if uint64(len(data)) == stlPrefixSize+uint64(n)*stlRecordSize {
			return readBinarySTL(data)
		}
	}
	if !isASCIISTL(data) {
		return readBinarySTL(data)
	}

	mesh, err := readASCIISTL(data)
	if err != nil && len(data) >= stlPrefixSize {
		if bin, binErr := readBinarySTL(data); binErr == nil {
			return bin, nil
		}
	}
	return mesh, err
}

func isASCIISTL(data []byte) bool {
	head := bytes.TrimLeft(data[:min(len(data), 512)], " \t\r\n")
	if !bytes.HasPrefix(bytes.ToLower(head), []byte("solid")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(data[:min(len(data), 1024)]), []byte("facet")) ||
		bytes.Contains(bytes.ToLower(head), []byte("endsolid"))
}

func readBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlPrefixSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:stlPrefixSize]))
	body := data[stlPrefixSize:]
	if len(body)/stlRecordSize < n {
		return nil, fmt.Errorf("%w: header declares %d triangles, body holds %d",
			ErrTruncated, n, len(body)/stlRecordSize)
	}

	b := newMeshBuilder(binaryHeaderName(data[:stlHeaderSize]))
	var tri [3][3]float32
	for i := range n {
		rec := body[i*stlRecordSize:]
		for v := range tri {
			for c := range tri[v] {
				const start = 3 * 4 // skip normal
				tri[v][c] = math.Float32frombits(binary.LittleEndian.Uint32(rec[start+12*v+4*c:]))
			}
		}
		if err := b.addTriangle(tri[0], tri[1], tri[2]); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	return b.finish()
}

func binaryHeaderName(header []byte) string {
	if i := bytes.IndexByte(header, 0); i >= 0 {
		header = header[:i]
	}
	name := strings.TrimSpace(string(header))
	if rest, ok := strings.CutPrefix(name, "solid"); ok {
		name = strings.TrimSpace(rest)
	}
	return name
}

func readASCIISTL(data []byte) (*Mesh, error) {
	var (
		b      *meshBuilder
		poly   [][3]float32
		inLoop bool
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if b == nil {
				b = newMeshBuilder(strings.Join(fields[1:], " "))
			}
		case "facet":
			poly = poly[:0]
		case "outer":
			inLoop = true
		case "vertex":
			if !inLoop {
				return nil, fmt.Errorf("stl line %d: vertex outside loop", line)
			}
			if len(fields) != 4 {
				return nil, fmt.Errorf("stl line %d: vertex needs 3 coordinates, got %d", line, len(fields)-1)
			}
			var p [3]float32
			for c := range p {
				f, err := strconv.ParseFloat(fields[c+1], 32)
				if err != nil {
					return nil, fmt.Errorf("stl line %d: %w", line, err)
				}
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, fmt.Errorf("stl line %d: %w %q", line, ErrInvalidCoordinate, fields[c+1])
				}
				p[c] = float32(f)
			}
			poly = append(poly, p)
		case "endloop":
			if len(poly) < 3 {
				return nil, fmt.Errorf("stl line %d: loop has %d vertices", line, len(poly))
			}
			if b == nil {
				b = newMeshBuilder("")
			}
			// Fan-triangulate polygons some exporters write.
			for i := 1; i+1 < len(poly); i++ {
				if err := b.addTriangle(poly[0], poly[i], poly[i+1]); err != nil {
					return nil, fmt.Errorf("stl line %d: %w", line, err)
				}
			}
			inLoop = false
		case "endfacet", "endsolid":
		default:
			return nil, fmt.Errorf("stl line %d: unexpected keyword %q", line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrEmptyMesh
	}
	return b.finish()
}

// meshBuilder merges coincident vertices while faces are added.
type meshBuilder struct {
	mesh  *Mesh
	index map[[3]float32]int
}

func newMeshBuilder(name string) *meshBuilder {
	return &meshBuilder{
		mesh:  NewMesh(name),
		index: make(map[[3]float32]int),
	}
}

func (b *meshBuilder) vertex(p [3]float32) int {
	if i, ok := b.index[p]; ok {
		return i
	}
	i := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, MeshVertex{
		Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
	})
	b.index[p] = i
	return i
}

// addTriangle drops faces that collapse once vertices are merged.
func (b *meshBuilder) addTriangle(p0, p1, p2 [3]float32) error {
	for _, p := range [3][3]float32{p0, p1, p2} {
		for _, c := range p {
			if f := float64(c); math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: %v", ErrInvalidCoordinate, p)
			}
		}
	}

	f := Face{V: [3]int{b.vertex(p0), b.vertex(p1), b.vertex(p2)}}
	if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
		return nil
	}
	b.mesh.Faces = append(b.mesh.Faces, f)
	return nil
}

func (b *meshBuilder) finish() (*Mesh, error) {
	if len(b.mesh.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	b.mesh.ComputeNormals()
	b.mesh.UpdateBounds()
	return b.mesh, nil
}
