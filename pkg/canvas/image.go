// ABOUTME: RGBA raster implementation of Surface
// ABOUTME: Used for PNG export of waveforms and as a pixel-exact test target
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// Image is a Surface backed by an RGBA raster
type Image struct {
	img *image.RGBA
}

// NewImage creates a transparent raster surface
func NewImage(width, height int) *Image {
	return &Image{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the raster width in pixels
func (m *Image) Width() int { return m.img.Bounds().Dx() }

// Height returns the raster height in pixels
func (m *Image) Height() int { return m.img.Bounds().Dy() }

// Clear resets every pixel to transparent
func (m *Image) Clear() {
	draw.Draw(m.img, m.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// VLine draws a one pixel wide vertical line
func (m *Image) VLine(x int, y0, y1 float64, c color.Color) {
	if x < 0 || x >= m.Width() {
		return
	}
	top, bottom, ok := rows(y0, y1, m.Height())
	if !ok {
		return
	}
	for y := top; y <= bottom; y++ {
		m.img.Set(x, y, c)
	}
}

// FillRect blends c over r
func (m *Image) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(m.img, r.Intersect(m.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// At returns the pixel color at (x, y)
func (m *Image) At(x, y int) color.Color {
	return m.img.At(x, y)
}

// RGBA exposes the underlying raster
func (m *Image) RGBA() *image.RGBA {
	return m.img
}

// Composite draws the given layers over a background into a new raster
func Composite(bg color.Color, layers ...*Image) *image.RGBA {
	if len(layers) == 0 {
		return nil
	}
	out := image.NewRGBA(layers[0].img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for _, l := range layers {
		draw.Draw(out, out.Bounds(), l.img, image.Point{}, draw.Over)
	}
	return out
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
