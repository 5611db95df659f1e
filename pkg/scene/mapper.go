package scene

import (
	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/models"
	"github.com/taigrr/stlview/pkg/render"
)

// Representation selects how a mapper draws its mesh.
type Representation int

const (
	Surface Representation = iota
	Wireframe
)

func (r Representation) String() string {
	switch r {
	case Surface:
		return "surface"
	case Wireframe:
		return "wireframe"
	default:
		return "unknown"
	}
}

// Shading selects per-face or per-vertex lighting for surfaces.
type Shading int

const (
	Flat Shading = iota
	Smooth
)

// DefaultMeshColor is the light grey meshes are drawn in until configured.
var DefaultMeshColor = render.RGB(230, 230, 230)

// Mapper converts a mesh into rasterizer draw calls.
type Mapper struct {
	mesh *models.Mesh

	Color          render.Color
	Representation Representation
	Shading        Shading
}

// NewMapper wraps mesh with default appearance.
func NewMapper(mesh *models.Mesh) *Mapper {
	return &Mapper{
		mesh:  mesh,
		Color: DefaultMeshColor,
	}
}

// Input is the mapped mesh, possibly nil.
func (m *Mapper) Input() *models.Mesh {
	return m.mesh
}

// Bounds is the mesh's local bounding box. ok is false with no geometry.
func (m *Mapper) Bounds() (box render.AABB, ok bool) {
	if m.mesh == nil || m.mesh.VertexCount() == 0 {
		return render.AABB{}, false
	}
	lo, hi := m.mesh.GetBounds()
	return render.NewAABB(lo, hi), true
}

// Render draws the mesh under model with light pointing towards the light.
func (m *Mapper) Render(r *render.Rasterizer, model math3d.Mat4, light math3d.Vec3) {
	if m.mesh == nil || m.mesh.TriangleCount() == 0 {
		return
	}

	switch {
	case m.Representation == Wireframe:
		r.DrawMeshWireframe(m.mesh, model, m.Color)
	case m.Shading == Smooth:
		r.DrawMeshGouraud(m.mesh, model, m.Color, light)
	default:
		r.DrawMeshFlat(m.mesh, model, m.Color, light)
	}
}
