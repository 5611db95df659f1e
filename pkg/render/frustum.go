package render

import (
	"github.com/taigrr/stlview/pkg/math3d"
)

// Plane is Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the equation so Normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint is the signed distance from the plane; positive on the
// side the normal points to.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann).
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) (float64, float64, float64, float64) {
		return m[i], m[i+4], m[i+8], m[i+12]
	}
	wx, wy, wz, ww := row(3)

	var f Frustum
	for i := range 3 {
		x, y, z, w := row(i)
		f.Planes[2*i] = Plane{Normal: math3d.V3(wx+x, wy+y, wz+z), D: ww + w}
		f.Planes[2*i+1] = Plane{Normal: math3d.V3(wx-x, wy-y, wz-z), D: ww - w}
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// IntersectAABB reports whether any part of box is inside the frustum.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// Corner furthest along the plane normal.
		p := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB builds a box from its corners.
func NewAABB(lo, hi math3d.Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

// UnitAABB is the [-1, 1]³ box used when there is nothing to frame.
func UnitAABB() AABB {
	return AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
}

// Center is the midpoint.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size is Max - Min.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Corners lists the eight corners.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside or on the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
