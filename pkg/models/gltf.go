package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/stlview/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a binary GLTF (.glb) or JSON (.gltf) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load merges every triangle primitive in the document into one Mesh.
// Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyMesh)
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		mesh.ComputeNormals()
	}
	mesh.UpdateBounds()

	return mesh, nil
}

// processMesh appends the geometry of m. glTF front faces are
// counter-clockwise, matching Mesh, so indices are kept as written.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{V: [3]int{
				base + int(indices[i]),
				base + int(indices[i+1]),
				base + int(indices[i+2]),
			}}
			for _, idx := range f.V {
				if idx >= len(mesh.Vertices) {
					return fmt.Errorf("index %d out of range", idx-base)
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
