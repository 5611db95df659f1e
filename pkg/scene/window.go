package scene

import (
	"image"

	"github.com/taigrr/stlview/pkg/render"
)

// RenderWindow owns the framebuffer and rasterizer that its renderers draw
// into. Renderers are layered in the order they were added; the first one
// supplies the background.
type RenderWindow struct {
	fb        *render.Framebuffer
	rast      *render.Rasterizer
	renderers []*Renderer
	frames    uint64
}

// NewRenderWindow allocates a width×height window.
func NewRenderWindow(width, height int) *RenderWindow {
	fb := render.NewFramebuffer(width, height)
	return &RenderWindow{
		fb:   fb,
		rast: render.NewRasterizer(render.NewCamera(), fb),
	}
}

// AddRenderer appends a layer.
func (w *RenderWindow) AddRenderer(r *Renderer) {
	w.renderers = append(w.renderers, r)
}

// Renderers returns the layers in draw order.
func (w *RenderWindow) Renderers() []*Renderer {
	return w.renderers
}

// Rasterizer exposes the rasterizer for shading options.
func (w *RenderWindow) Rasterizer() *render.Rasterizer {
	return w.rast
}

// SetSize resizes the pixel buffers. Unchanged sizes keep the old buffers.
func (w *RenderWindow) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == w.fb.Width && height == w.fb.Height {
		return
	}
	w.fb = render.NewFramebuffer(width, height)
	w.rast.SetFramebuffer(w.fb)
}

// Size is the pixel size.
func (w *RenderWindow) Size() (width, height int) {
	return w.fb.Width, w.fb.Height
}

// Render draws one frame.
func (w *RenderWindow) Render() {
	bg := DefaultBackground
	if len(w.renderers) > 0 {
		bg = w.renderers[0].Background
	}
	w.fb.Clear(bg)
	w.rast.CullingStats = render.CullingStats{}

	for _, r := range w.renderers {
		r.draw(w.rast, w.fb)
	}
	w.frames++
}

// Frames counts completed Render calls.
func (w *RenderWindow) Frames() uint64 {
	return w.frames
}

// Framebuffer is the current frame. It is replaced by SetSize.
func (w *RenderWindow) Framebuffer() *render.Framebuffer {
	return w.fb
}

// Image copies the current frame.
func (w *RenderWindow) Image() *image.RGBA {
	return w.fb.ToImage()
}
