// Package scene is the display pipeline between a loaded mesh and the
// rasterizer: mappers turn meshes into draw calls, actors place them in the
// world, renderers own the camera and the prop list, and a render window
// owns the pixels.
package scene

import "github.com/taigrr/stlview/pkg/math3d"

// Transform is a 4×4 affine transform built up by successive translations.
type Transform struct {
	m math3d.Mat4
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	return &Transform{m: math3d.Identity()}
}

// Translate post-multiplies a translation by (x, y, z).
func (t *Transform) Translate(x, y, z float64) {
	t.m = t.m.Mul(math3d.Translate(math3d.V3(x, y, z)))
}

// Matrix returns the accumulated matrix.
func (t *Transform) Matrix() math3d.Mat4 {
	return t.m
}

// Position is the translation part of the matrix.
func (t *Transform) Position() math3d.Vec3 {
	return t.m.Translation()
}
