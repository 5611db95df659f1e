package scene

import (
	"slices"

	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/render"
)

// DefaultBackground is the dark slate the viewport clears to.
var DefaultBackground = render.RGB(26, 26, 38)

// Renderer owns a camera and an ordered list of actors.
type Renderer struct {
	actors []*Actor
	camera *render.Camera

	Background render.Color

	// Light points from the scene towards a fixed light. When zero the
	// light sits at the camera.
	Light math3d.Vec3

	ShowAxes   bool
	ShowBounds bool
}

// NewRenderer creates an empty renderer with a camera on +Z looking at the
// origin.
func NewRenderer() *Renderer {
	return &Renderer{
		camera:     render.NewCamera(),
		Background: DefaultBackground,
	}
}

// Camera returns the active camera.
func (r *Renderer) Camera() *render.Camera {
	return r.camera
}

// AddActor appends a. Adding an actor twice is a no-op.
func (r *Renderer) AddActor(a *Actor) {
	if a == nil || r.HasActor(a) {
		return
	}
	r.actors = append(r.actors, a)
}

// RemoveActor detaches a if present.
func (r *Renderer) RemoveActor(a *Actor) {
	r.actors = slices.DeleteFunc(r.actors, func(x *Actor) bool { return x == a })
}

// RemoveAllViewProps detaches every actor.
func (r *Renderer) RemoveAllViewProps() {
	clear(r.actors)
	r.actors = r.actors[:0]
}

// HasActor reports whether a is attached.
func (r *Renderer) HasActor(a *Actor) bool {
	return slices.Contains(r.actors, a)
}

// Actors returns a copy of the actor list in draw order.
func (r *Renderer) Actors() []*Actor {
	return slices.Clone(r.actors)
}

// VisibleBounds is the union of the bounds of all visible actors.
func (r *Renderer) VisibleBounds() (render.AABB, bool) {
	var (
		box   render.AABB
		found bool
	)
	for _, a := range r.actors {
		if !a.Visible {
			continue
		}
		b, ok := a.Bounds()
		if !ok {
			continue
		}
		if found {
			box = box.Union(b)
		} else {
			box, found = b, true
		}
	}
	return box, found
}

// ResetCamera frames the visible actors, keeping the view direction. With
// nothing visible it frames the unit box.
func (r *Renderer) ResetCamera() {
	box, ok := r.VisibleBounds()
	if !ok {
		box = render.UnitAABB()
	}
	r.camera.Frame(box)
}

// ResetView returns the camera to looking down -Z with +Y up, then frames
// the visible actors.
func (r *Renderer) ResetView() {
	r.camera.SetFocalPoint(math3d.Zero3())
	r.camera.SetPosition(math3d.V3(0, 0, 1))
	r.camera.SetViewUp(math3d.Up())
	r.ResetCamera()
}

// ResetCameraClippingRange fits the near and far planes around the visible
// actors from the current eye position.
func (r *Renderer) ResetCameraClippingRange() {
	box, ok := r.VisibleBounds()
	if !ok {
		return
	}

	radius := max(box.Size().Len()/2, 1e-6)
	d := r.camera.DirectionOfProjection().Dot(box.Center().Sub(r.camera.Position))
	far := d + radius*1.01
	if far <= 0 {
		return
	}
	near := max(d-radius*1.01, far*0.001)
	r.camera.SetClipPlanes(near, far)
}

// Orbit turns the camera about its focal point by azimuth and elevation
// radians.
func (r *Renderer) Orbit(azimuth, elevation float64) {
	if azimuth != 0 {
		r.camera.Azimuth(azimuth)
	}
	if elevation != 0 {
		r.camera.Elevation(elevation)
		r.camera.OrthogonalizeViewUp()
	}
}

// LightDirection is the unit vector from the scene towards the light.
func (r *Renderer) LightDirection() math3d.Vec3 {
	if r.Light.Len() > 0 {
		return r.Light.Normalize()
	}
	return r.camera.DirectionOfProjection().Negate()
}

// draw renders every visible actor into fb. The caller clears colour.
func (r *Renderer) draw(rast *render.Rasterizer, fb *render.Framebuffer) {
	if fb.Width == 0 || fb.Height == 0 {
		return
	}

	r.camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	r.ResetCameraClippingRange()
	rast.SetCamera(r.camera)
	rast.ClearDepth()

	light := r.LightDirection()
	for _, a := range r.actors {
		a.render(rast, light)
	}

	if !r.ShowAxes && !r.ShowBounds {
		return
	}
	guides := render.NewWireframe(r.camera, fb)
	box, ok := r.VisibleBounds()
	if r.ShowBounds && ok {
		guides.DrawBox(box, render.Shade(DefaultMeshColor, 0.6))
	}
	if r.ShowAxes {
		length := 1.0
		if ok {
			length = box.Size().Len() / 4
		}
		guides.DrawAxes(math3d.Zero3(), length)
	}
}
