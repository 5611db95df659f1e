package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer into area of a terminal screen. Each cell
// shows two framebuffer rows as an upper half block: foreground is the top
// pixel, background the bottom one. The framebuffer should therefore be
// twice as tall as area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, top)),
					Bg: rgbaToColor(fb.GetPixel(x, top+1)),
				},
			})
		}
	}
}

// DrawText writes a single line of text starting at (x, y), clipped to width
// cells. The remainder of the line is filled with bg.
func DrawText(scr uv.Screen, x, y, width int, text string, fg, bg Color) {
	style := uv.Style{Fg: rgbaToColor(fg), Bg: rgbaToColor(bg)}
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		scr.SetCell(col, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		col++
	}
	for ; col < x+width; col++ {
		scr.SetCell(col, y, &uv.Cell{Content: " ", Width: 1, Style: style})
	}
}

// rgbaToColor maps fully transparent pixels to the terminal default colour.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
