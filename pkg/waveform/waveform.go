// ABOUTME: Min/max envelope waveform rendering
// ABOUTME: Draws one vertical segment per canvas column onto a Surface
package waveform

import (
	"image/color"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
)

// Column is the amplitude range covered by one canvas column
type Column struct {
	Min   float32
	Max   float32
	Empty bool
}

// Envelope reduces samples to exactly width columns.
// Column i covers samples [i*step, (i+1)*step) with step = ceil(len/width),
// clipped to the data. Columns with no samples are marked Empty.
func Envelope(samples []float32, width int) []Column {
	if width <= 0 {
		return nil
	}
	cols := make([]Column, width)
	if len(samples) == 0 {
		for i := range cols {
			cols[i].Empty = true
		}
		return cols
	}

	step := (len(samples) + width - 1) / width
	for i := range cols {
		start := i * step
		if start >= len(samples) {
			cols[i].Empty = true
			continue
		}
		end := start + step
		if end > len(samples) {
			end = len(samples)
		}
		lo, hi := samples[start], samples[start]
		for _, v := range samples[start+1 : end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		cols[i] = Column{Min: lo, Max: hi}
	}
	return cols
}

// Draw renders the envelope of samples across the full surface
func Draw(s canvas.Surface, samples []float32, c color.Color) {
	DrawAt(s, samples, c, 0, float64(s.Height()))
}

// DrawAt renders the envelope into the band [startY, startY+height).
// Each column becomes a vertical line from (1+min)/2*height to (1+max)/2*height.
// Empty input draws nothing.
func DrawAt(s canvas.Surface, samples []float32, c color.Color, startY, height float64) {
	if len(samples) == 0 || s.Width() <= 0 {
		return
	}
	amp := height / 2
	for x, col := range Envelope(samples, s.Width()) {
		if col.Empty {
			continue
		}
		y0 := startY + (1+float64(col.Min))*amp
		y1 := startY + (1+float64(col.Max))*amp
		s.VLine(x, y0, y1, c)
	}
}

// Renderer draws one decoded sample onto a surface.
// Init must be called before DrawWave; an uninitialised Renderer draws nothing.
type Renderer struct {
	sample  *audio.Sample
	surface canvas.Surface
	color   color.Color
}

// Init binds the renderer to a sample, a surface and a line color
func (r *Renderer) Init(sample *audio.Sample, surface canvas.Surface, c color.Color) {
	r.sample = sample
	r.surface = surface
	r.color = c
}

// DrawWave renders the first channel into the band [startY, startY+height)
func (r *Renderer) DrawWave(startY, height float64) {
	if r.sample == nil || r.surface == nil {
		return
	}
	DrawAt(r.surface, r.sample.Channel(0), r.color, startY, height)
}
