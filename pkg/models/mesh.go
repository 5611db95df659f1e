// Package models loads triangle meshes from STL and glTF files into the
// indexed form the renderer draws.
package models

import (
	"github.com/taigrr/stlview/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Faces are wound counter-clockwise around
// their outward normal.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Min and Max bound every vertex; kept current by UpdateBounds.
	Min, Max math3d.Vec3
}

// MeshVertex is a position with its shading normal.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle as three indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// UpdateBounds recomputes Min and Max. An empty mesh is bounded by the origin.
func (m *Mesh) UpdateBounds() {
	m.Min, m.Max = math3d.Zero3(), math3d.Zero3()
	for i, v := range m.Vertices {
		if i == 0 {
			m.Min, m.Max = v.Position, v.Position
			continue
		}
		m.Min = m.Min.Min(v.Position)
		m.Max = m.Max.Max(v.Position)
	}
}

// Extent is the size of the bounding box along each axis.
func (m *Mesh) Extent() math3d.Vec3 {
	return m.Max.Sub(m.Min)
}

func (m *Mesh) TriangleCount() int { return len(m.Faces) }
func (m *Mesh) VertexCount() int   { return len(m.Vertices) }

// faceArea2 is the face's cross product: its direction follows the winding,
// its length is twice the area.
func (m *Mesh) faceArea2(f Face) math3d.Vec3 {
	a := m.Vertices[f.V[0]].Position
	b := m.Vertices[f.V[1]].Position
	c := m.Vertices[f.V[2]].Position
	return b.Sub(a).Cross(c.Sub(a))
}

// FaceNormal is the unit normal of face i, following its winding.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	return m.faceArea2(m.Faces[i]).Normalize()
}

// ComputeNormals replaces every vertex normal with the area-weighted mean of
// the normals of the faces sharing it.
func (m *Mesh) ComputeNormals() {
	sum := make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		n := m.faceArea2(f)
		for _, idx := range f.V {
			sum[idx] = sum[idx].Add(n)
		}
	}
	for i, n := range sum {
		m.Vertices[i].Normal = n.Normalize()
	}
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 1e-3 {
			return true
		}
	}
	return false
}

// GetVertex, GetFace and GetBounds let the rasterizer draw a Mesh.

func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := &m.Vertices[i]
	return v.Position, v.Normal
}

func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

func (m *Mesh) GetBounds() (lo, hi math3d.Vec3) {
	return m.Min, m.Max
}
