package render

import (
	"math"

	"github.com/taigrr/stlview/pkg/math3d"
)

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Triangle is three vertices.
type Triangle struct {
	V [3]Vertex
}

// MeshRenderer is the geometry the rasterizer can draw. It lives here rather
// than in models so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer is a MeshRenderer that knows its local bounds, which
// enables frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (lo, hi math3d.Vec3)
}

// CullingStats counts frustum-culling decisions since the last reset.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// Rasterizer fills triangles into a framebuffer with a depth test.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	CullingStats CullingStats

	// CullBackfaces drops triangles that appear clockwise on screen, which
	// are the back faces of a mesh wound counter-clockwise around its outward
	// normals. STL files in the wild are not reliably wound, so this is off
	// by default.
	CullBackfaces bool
	// TwoSidedLighting lights faces whose normal points away from the light
	// as if it pointed towards it.
	TwoSidedLighting bool
	// Ambient is the light floor added to every lit vertex.
	Ambient float64
}

// NewRasterizer binds a camera and framebuffer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:           camera,
		fb:               fb,
		TwoSidedLighting: true,
		Ambient:          0.3,
	}
	r.Resize()
	return r
}

// SetCamera switches the camera used for projection.
func (r *Rasterizer) SetCamera(c *Camera) {
	r.camera = c
}

// SetFramebuffer switches the target and reallocates the depth buffer.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	n := r.fb.Width * r.fb.Height
	if cap(r.zbuffer) >= n {
		r.zbuffer = r.zbuffer[:n]
		return
	}
	r.zbuffer = make([]float64, n)
}

// Width is the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height is the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets the depth buffer. Call once per frame.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// IsVisible tests a world-space box against the camera frustum.
func (r *Rasterizer) IsVisible(world AABB) bool {
	return r.camera.Frustum().IntersectAABB(world)
}

// culled reports whether mesh lies entirely outside the view after transform.
func (r *Rasterizer) culled(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.IsVisible(NewAABB(lo, hi).Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// intensity is the Lambert term plus ambient for a unit normal.
func (r *Rasterizer) intensity(normal, light math3d.Vec3) float64 {
	d := normal.Dot(light)
	if r.TwoSidedLighting {
		d = math.Abs(d)
	}
	return r.Ambient + (1-r.Ambient)*math.Max(0, d)
}

type screenVertex struct {
	X, Y, Z float64
	W       float64
	R, G, B float64
}

// edgeCoeffs returns A, B, C with edge(x, y) = A*x + B*y + C for the edge
// from (x0, y0) to (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

// DrawTriangleGouraud fills tri with per-vertex lighting interpolated across
// the face. lightDir points from the surface towards the light.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.camera.ViewProjectionMatrix()
	light := lightDir.Normalize()
	w, h := float64(r.Width()), float64(r.Height())

	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W > 0 {
			allBehind = false
		}
		ndc := clip.PerspectiveDivide()
		sv[i].X = (ndc.X + 1) * 0.5 * w
		sv[i].Y = (1 - ndc.Y) * 0.5 * h
		sv[i].Z = ndc.Z
		sv[i].W = clip.W

		k := r.intensity(tri.V[i].Normal, light)
		c := tri.V[i].Color
		sv[i].R, sv[i].G, sv[i].B = float64(c.R)*k, float64(c.G)*k, float64(c.B)*k
	}
	if allBehind {
		return
	}

	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 {
		return
	}
	if area > 0 && r.CullBackfaces {
		return
	}
	if area < 0 {
		sv[1], sv[2] = sv[2], sv[1]
		area = -area
	}

	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(w-1, math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(h-1, math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	inv := 1 / area

	px, py := float64(minX)+0.5, float64(minY)+0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	width := r.Width()
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				l0, l1, l2 := w0*inv, w1*inv, w2*inv
				z := l0*sv[0].Z + l1*sv[1].Z + l2*sv[2].Z
				idx := row + x
				if z >= -1 && z < r.zbuffer[idx] {
					r.zbuffer[idx] = z
					r.fb.Pixels[idx] = RGB(
						channel(l0*sv[0].R+l1*sv[1].R+l2*sv[2].R),
						channel(l0*sv[0].G+l1*sv[1].G+l2*sv[2].G),
						channel(l0*sv[0].B+l1*sv[1].B+l2*sv[2].B),
					)
				}
			}
			w0 += a0
			w1 += a1
			w2 += a2
		}

		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

func channel(v float64) uint8 {
	return uint8(min(max(v, 0), 255))
}

// DrawMeshGouraud draws mesh with smooth shading from its vertex normals.
func (r *Rasterizer) DrawMeshGouraud(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k := range 3 {
			p, n := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				Color:    color,
			}
		}
		r.DrawTriangleGouraud(tri, lightDir)
	}
}

// DrawMeshFlat draws mesh with one normal per face, computed from the
// transformed positions. Faces are wound counter-clockwise around their
// outward normal.
func (r *Rasterizer) DrawMeshFlat(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var pos [3]math3d.Vec3
		for k := range 3 {
			p, _ := mesh.GetVertex(face[k])
			pos[k] = transform.MulVec3(p)
		}
		normal := pos[1].Sub(pos[0]).Cross(pos[2].Sub(pos[0])).Normalize()

		tri := Triangle{V: [3]Vertex{
			{Position: pos[0], Normal: normal, Color: color},
			{Position: pos[1], Normal: normal, Color: color},
			{Position: pos[2], Normal: normal, Color: color},
		}}
		r.DrawTriangleGouraud(tri, lightDir)
	}
}

// DrawMeshWireframe draws every triangle edge without depth testing.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		p0, _ := mesh.GetVertex(face[0])
		p1, _ := mesh.GetVertex(face[1])
		p2, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
}

// DrawLine3D projects a world-space segment and draws it. Segments with both
// ends behind the eye are skipped.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()
	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	na, nb := clipA.PerspectiveDivide(), clipB.PerspectiveDivide()
	w, h := float64(r.Width()), float64(r.Height())

	r.fb.DrawLine(
		int((na.X+1)*0.5*w), int((1-na.Y)*0.5*h),
		int((nb.X+1)*0.5*w), int((1-nb.Y)*0.5*h),
		color,
	)
}
