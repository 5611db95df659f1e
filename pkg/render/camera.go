package render

import (
	"math"

	"github.com/taigrr/stlview/pkg/math3d"
)

// Camera is a perspective camera described by where it sits, what it looks
// at and which way is up.
type Camera struct {
	Position   math3d.Vec3
	FocalPoint math3d.Vec3
	ViewUp     math3d.Vec3

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	view     math3d.Mat4
	proj     math3d.Mat4
	viewProj math3d.Mat4
	dirty    bool
}

// NewCamera returns a camera one unit up the +Z axis looking at the origin
// with a 30 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 1),
		FocalPoint:  math3d.Zero3(),
		ViewUp:      math3d.Up(),
		FOV:         math.Pi / 6,
		AspectRatio: 4.0 / 3.0,
		Near:        0.01,
		Far:         1000,
		dirty:       true,
	}
}

// SetPosition moves the eye.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.dirty = true
}

// SetFocalPoint changes the point looked at.
func (c *Camera) SetFocalPoint(p math3d.Vec3) {
	c.FocalPoint = p
	c.dirty = true
}

// SetViewUp changes the up hint.
func (c *Camera) SetViewUp(up math3d.Vec3) {
	c.ViewUp = up.Normalize()
	c.dirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetAspectRatio sets width over height. Non-positive values are ignored.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect <= 0 || aspect == c.AspectRatio {
		return
	}
	c.AspectRatio = aspect
	c.dirty = true
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.dirty = true
}

// Distance is the eye-to-focal-point distance.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.FocalPoint)
}

// DirectionOfProjection is the unit vector from the eye to the focal point.
func (c *Camera) DirectionOfProjection() math3d.Vec3 {
	return c.FocalPoint.Sub(c.Position).Normalize()
}

// Right is the unit vector pointing to the right of the view.
func (c *Camera) Right() math3d.Vec3 {
	return c.DirectionOfProjection().Cross(c.ViewUp).Normalize()
}

// Azimuth orbits the eye about the view-up axis through the focal point.
func (c *Camera) Azimuth(angle float64) {
	rot := math3d.Rotate(c.ViewUp, angle)
	offset := c.Position.Sub(c.FocalPoint)
	c.Position = c.FocalPoint.Add(rot.MulVec3Dir(offset))
	c.dirty = true
}

// Elevation orbits the eye about the right axis through the focal point.
// The view-up vector turns with it so the view never degenerates at the poles.
func (c *Camera) Elevation(angle float64) {
	rot := math3d.Rotate(c.Right(), -angle)
	offset := c.Position.Sub(c.FocalPoint)
	c.Position = c.FocalPoint.Add(rot.MulVec3Dir(offset))
	c.ViewUp = rot.MulVec3Dir(c.ViewUp).Normalize()
	c.dirty = true
}

// OrthogonalizeViewUp makes ViewUp perpendicular to the view direction.
func (c *Camera) OrthogonalizeViewUp() {
	dir := c.DirectionOfProjection()
	right := dir.Cross(c.ViewUp).Normalize()
	if right.Len() == 0 {
		return
	}
	c.ViewUp = right.Cross(dir).Normalize()
	c.dirty = true
}

// Frame points the camera at the centre of box and backs off along the
// current view direction until the bounding sphere fits the vertical field
// of view. Clip planes are fitted around the sphere. A non-finite box frames
// the unit box, and a camera left in a non-finite state starts over looking
// down -Z with +Y up.
func (c *Camera) Frame(box AABB) {
	if !box.Min.IsFinite() || !box.Max.IsFinite() {
		box = UnitAABB()
	}
	center := box.Center()
	radius := box.Size().Len() / 2
	if radius == 0 {
		radius = 0.5
	}

	dir := c.DirectionOfProjection()
	if !dir.IsFinite() || dir.Len() == 0 {
		dir = math3d.V3(0, 0, -1)
	}
	if !c.ViewUp.IsFinite() || c.ViewUp.Len() == 0 {
		c.ViewUp = math3d.Up()
	}

	distance := radius / math.Sin(c.FOV/2)

	c.FocalPoint = center
	c.Position = center.Sub(dir.Scale(distance))
	c.Near = max(distance-radius*1.01, distance*0.001)
	c.Far = distance + radius*1.01
	c.dirty = true
	c.OrthogonalizeViewUp()
}

// ViewMatrix returns the world-to-eye transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.view
}

// ProjectionMatrix returns the eye-to-clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.proj
}

// ViewProjectionMatrix returns projection × view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProj
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.view = math3d.LookAt(c.Position, c.FocalPoint, c.ViewUp)
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.viewProj = c.proj.Mul(c.view)
	c.dirty = false
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// WorldToScreen projects a world point to pixel coordinates. visible is
// false when the point falls outside the view volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, ndc.Z, true
}
