// ABOUTME: Drawing surface abstraction shared by renderers
// ABOUTME: Implemented by raster images and terminal character grids
package canvas

import (
	"image"
	"image/color"
)

// Surface is a fixed-size 2D target for waveform and overlay drawing.
// Coordinates are in surface units with the origin at the top-left.
type Surface interface {
	Width() int
	Height() int

	// Clear resets every unit to transparent
	Clear()

	// VLine draws a vertical segment in column x between y0 and y1 (either order)
	VLine(x int, y0, y1 float64, c color.Color)

	// FillRect blends c over the rectangle, clipped to the surface
	FillRect(r image.Rectangle, c color.Color)
}

// Bounds returns the full rectangle of s
func Bounds(s Surface) image.Rectangle {
	return image.Rect(0, 0, s.Width(), s.Height())
}

// rows converts a y span to an inclusive integer row range clipped to height
func rows(y0, y1 float64, height int) (int, int, bool) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	top := int(y0)
	bottom := int(y1)
	if bottom >= height {
		bottom = height - 1
	}
	if top < 0 {
		top = 0
	}
	if top > bottom {
		return 0, 0, false
	}
	return top, bottom, true
}
