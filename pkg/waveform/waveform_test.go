// ABOUTME: Tests for envelope computation and waveform drawing
// ABOUTME: Uses a recording Surface to observe the drawn segments
package waveform

import (
	"image"
	"image/color"
	"testing"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
)

type segment struct {
	x      int
	y0, y1 float64
}

// recordingSurface captures VLine calls
type recordingSurface struct {
	w, h     int
	segments []segment
}

func (r *recordingSurface) Width() int  { return r.w }
func (r *recordingSurface) Height() int { return r.h }
func (r *recordingSurface) Clear()      { r.segments = nil }
func (r *recordingSurface) VLine(x int, y0, y1 float64, _ color.Color) {
	r.segments = append(r.segments, segment{x, y0, y1})
}
func (r *recordingSurface) FillRect(image.Rectangle, color.Color) {}

func TestEnvelopeColumnCount(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		width   int
	}{
		{"fewer samples than columns", 10, 800},
		{"exact multiple", 1600, 800},
		{"uneven", 1234, 800},
		{"many samples", 44100, 800},
		{"empty", 0, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := Envelope(make([]float32, tt.samples), tt.width)
			if len(cols) != tt.width {
				t.Errorf("expected %d columns, got %d", tt.width, len(cols))
			}
		})
	}
}

func TestEnvelopeMinMax(t *testing.T) {
	samples := []float32{0.1, -0.5, 0.9, 0.2, -0.1, 0.3, 0.7}
	cols := Envelope(samples, 3)

	// step = ceil(7/3) = 3
	want := []Column{
		{Min: -0.5, Max: 0.9},
		{Min: -0.1, Max: 0.3},
		{Min: 0.7, Max: 0.7},
	}
	for i, c := range cols {
		if c != want[i] {
			t.Errorf("column %d: expected %+v, got %+v", i, want[i], c)
		}
	}
}

func TestEnvelopeTrailingColumnsEmpty(t *testing.T) {
	cols := Envelope([]float32{1, 1, 1}, 5)
	for i := 3; i < 5; i++ {
		if !cols[i].Empty {
			t.Errorf("column %d should be empty", i)
		}
	}
}

func TestDrawZeroSamplesDrawsNothing(t *testing.T) {
	s := &recordingSurface{w: 800, h: 100}
	Draw(s, nil, color.White)
	if len(s.segments) != 0 {
		t.Errorf("expected no segments, got %d", len(s.segments))
	}
}

func TestDrawSilenceIsCenterLine(t *testing.T) {
	s := &recordingSurface{w: 4, h: 100}
	Draw(s, make([]float32, 8), color.White)

	if len(s.segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(s.segments))
	}
	for _, seg := range s.segments {
		if seg.y0 != 50 || seg.y1 != 50 {
			t.Errorf("expected centre line, got %+v", seg)
		}
	}
}

func TestDrawFullScale(t *testing.T) {
	s := &recordingSurface{w: 1, h: 200}
	Draw(s, []float32{-1, 1}, color.White)
	if len(s.segments) != 1 || s.segments[0].y0 != 0 || s.segments[0].y1 != 200 {
		t.Errorf("unexpected segments %+v", s.segments)
	}
}

func TestDrawIdempotent(t *testing.T) {
	samples := []float32{0.5, -0.5, 0.25, -0.25}
	a := canvas.NewImage(2, 10)
	b := canvas.NewImage(2, 10)
	Draw(a, samples, color.White)
	Draw(b, samples, color.White)
	Draw(b, samples, color.White)

	for x := 0; x < 2; x++ {
		for y := 0; y < 10; y++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs after repeated draw", x, y)
			}
		}
	}
}

func TestRendererUninitialised(t *testing.T) {
	var r Renderer
	r.DrawWave(0, 100)

	s := &recordingSurface{w: 2, h: 10}
	r.Init(audio.NewSample(8000, 1, 4), s, color.White)
	r.DrawWave(0, 10)
	if len(s.segments) != 2 {
		t.Errorf("expected 2 segments, got %d", len(s.segments))
	}
}
