package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/stlview/pkg/math3d"
)

// writeGLB saves a single-primitive document to a temp file.
func writeGLB(t *testing.T, positions [][3]float32, indices []uint16) string {
	t.Helper()

	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
	}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "part", Primitives: []*gltf.Primitive{prim}}}

	path := filepath.Join(t.TempDir(), "part.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}

func TestLoadGLBIndexed(t *testing.T) {
	path := writeGLB(t,
		[][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[]uint16{0, 1, 2, 0, 2, 3},
	)

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if mesh.Name != "part.glb" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.GetFace(1) != [3]int{0, 2, 3} {
		t.Errorf("face 1 = %v, winding should be kept", mesh.GetFace(1))
	}
	// Counter-clockwise in XY faces +Z.
	if n := mesh.FaceNormal(0); !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("face normal = %v", n)
	}
	if _, n := mesh.GetVertex(0); !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("computed vertex normal = %v", n)
	}
	if !mesh.Max.ApproxEqual(math3d.V3(1, 1, 0), 1e-9) {
		t.Errorf("Max = %v", mesh.Max)
	}
}

func TestLoadGLBUnindexed(t *testing.T) {
	path := writeGLB(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil)

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestLoadGLBEmpty(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	if _, err := LoadGLB(path); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("err = %v, want ErrEmptyMesh", err)
	}
}
