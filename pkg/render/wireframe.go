package render

import (
	"github.com/taigrr/stlview/pkg/math3d"
)

// Wireframe draws unshaded guide geometry (axes, outlines) on top of a frame.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe binds a camera and framebuffer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// DrawLine3D projects and draws a segment. It is skipped when neither end
// is inside the view volume.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		// TODO: clip against the frustum instead of dropping partly visible lines.
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBox outlines an axis-aligned box.
func (w *Wireframe) DrawBox(box AABB, color Color) {
	c := box.Corners()
	for _, e := range boxEdges {
		w.DrawLine3D(c[e[0]], c[e[1]], color)
	}
}

// DrawAxes draws X, Y and Z in red, green and blue from origin.
func (w *Wireframe) DrawAxes(origin math3d.Vec3, length float64) {
	w.DrawLine3D(origin, origin.Add(math3d.V3(length, 0, 0)), ColorRed)
	w.DrawLine3D(origin, origin.Add(math3d.V3(0, length, 0)), ColorGreen)
	w.DrawLine3D(origin, origin.Add(math3d.V3(0, 0, length)), ColorBlue)
}
