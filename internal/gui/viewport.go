package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// viewport shows rendered frames and reports mouse drags over them.
type viewport struct {
	widget.BaseWidget

	raster *canvas.Raster

	onDrag    func(dx, dy float32)
	onDragEnd func()
}

func newViewport(generate func(w, h int) image.Image) *viewport {
	v := &viewport{raster: canvas.NewRaster(generate)}
	v.raster.SetMinSize(fyne.NewSize(320, 240))
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// Dragged implements fyne.Draggable.
func (v *viewport) Dragged(e *fyne.DragEvent) {
	if v.onDrag != nil {
		v.onDrag(e.Dragged.DX, e.Dragged.DY)
	}
}

// DragEnd implements fyne.Draggable.
func (v *viewport) DragEnd() {
	if v.onDragEnd != nil {
		v.onDragEnd()
	}
}
