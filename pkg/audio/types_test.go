// ABOUTME: Tests for audio types
// ABOUTME: Tests sample shape helpers and float conversions
package audio

import (
	"math"
	"testing"
)

func TestSampleDuration(t *testing.T) {
	tests := []struct {
		name     string
		sample   *Sample
		expected float64
	}{
		{"nil", nil, 0},
		{"one second mono", NewSample(44100, 1, 44100), 1},
		{"half second stereo", NewSample(48000, 2, 24000), 0.5},
		{"zero rate", &Sample{Data: [][]float32{{0, 0}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.Duration(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSampleFrameAt(t *testing.T) {
	s := NewSample(1000, 1, 2000)

	tests := []struct {
		seconds  float64
		expected int
	}{
		{-1, 0},
		{0, 0},
		{0.5, 500},
		{2, 2000},
		{3, 2000},
	}

	for _, tt := range tests {
		if got := s.FrameAt(tt.seconds); got != tt.expected {
			t.Errorf("FrameAt(%v): expected %d, got %d", tt.seconds, tt.expected, got)
		}
	}
}

func TestSampleChannel(t *testing.T) {
	s := NewSample(8000, 2, 4)
	if s.Channels() != 2 {
		t.Fatalf("expected 2 channels, got %d", s.Channels())
	}
	if s.Channel(1) == nil {
		t.Error("expected channel 1 data")
	}
	if s.Channel(2) != nil {
		t.Error("expected nil for out of range channel")
	}
}

func TestDeinterleave(t *testing.T) {
	data := Deinterleave([]float32{1, -1, 0.5, -0.5, 0.25, -0.25}, 2)
	if len(data) != 2 || len(data[0]) != 3 {
		t.Fatalf("unexpected shape: %d channels", len(data))
	}
	if data[0][1] != 0.5 || data[1][2] != -0.25 {
		t.Errorf("unexpected values: %v", data)
	}
	if Deinterleave([]float32{1}, 0) != nil {
		t.Error("expected nil for zero channels")
	}
}

func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, math.MaxInt16},
		{"negative full scale", -1, -math.MaxInt16},
		{"clip high", 2, math.MaxInt16},
		{"clip low", -3, -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatToInt16(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestIntToFloat(t *testing.T) {
	if got := IntToFloat(-32768, 16); got != -1 {
		t.Errorf("expected -1, got %v", got)
	}
	if got := IntToFloat(1<<22, 24); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := Int16ToFloat(16384); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}
