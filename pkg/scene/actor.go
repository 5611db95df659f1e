package scene

import (
	"github.com/taigrr/stlview/pkg/math3d"
	"github.com/taigrr/stlview/pkg/render"
)

// Actor places a mapper in the world.
type Actor struct {
	mapper *Mapper
	user   *Transform

	Visible bool
}

// NewActor creates a visible actor for mapper.
func NewActor(mapper *Mapper) *Actor {
	return &Actor{mapper: mapper, Visible: true}
}

// Mapper returns the actor's mapper.
func (a *Actor) Mapper() *Mapper {
	return a.mapper
}

// SetUserTransform replaces the actor's transform. nil clears it.
func (a *Actor) SetUserTransform(t *Transform) {
	a.user = t
}

// UserTransform is the transform last set, or nil.
func (a *Actor) UserTransform() *Transform {
	return a.user
}

// Matrix is the model-to-world matrix.
func (a *Actor) Matrix() math3d.Mat4 {
	if a.user == nil {
		return math3d.Identity()
	}
	return a.user.Matrix()
}

// Bounds is the world-space bounding box. ok is false when the mapper has
// no geometry.
func (a *Actor) Bounds() (render.AABB, bool) {
	if a.mapper == nil {
		return render.AABB{}, false
	}
	box, ok := a.mapper.Bounds()
	if !ok {
		return box, false
	}
	return box.Transform(a.Matrix()), true
}

func (a *Actor) render(r *render.Rasterizer, light math3d.Vec3) {
	if !a.Visible || a.mapper == nil {
		return
	}
	a.mapper.Render(r, a.Matrix(), light)
}
