// ABOUTME: Pixel to time conversions for fixed-width canvases
// ABOUTME: Maps trim bar positions to offsets into a decoded sample
package canvas

import "fmt"

// PixelToSeconds maps a horizontal pixel position to a time offset.
// The pixel is clamped to [0, canvasWidthPx], so the result always lies in
// [0, durationSeconds]. A non-positive width is a programming error and panics.
func PixelToSeconds(pixelX, durationSeconds float64, canvasWidthPx int) float64 {
	w := mustWidth(canvasWidthPx)
	return Clamp(pixelX, 0, w) / w * durationSeconds
}

// SecondsToPixel is the inverse of PixelToSeconds
func SecondsToPixel(seconds, durationSeconds float64, canvasWidthPx int) float64 {
	w := mustWidth(canvasWidthPx)
	if durationSeconds <= 0 {
		return 0
	}
	return Clamp(seconds, 0, durationSeconds) / durationSeconds * w
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustWidth(canvasWidthPx int) float64 {
	if canvasWidthPx <= 0 {
		panic(fmt.Sprintf("canvas: width must be positive, got %d", canvasWidthPx))
	}
	return float64(canvasWidthPx)
}
