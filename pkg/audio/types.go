// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded samples, stream formats and sample conversions
package audio

import "math"

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Sample is a fully decoded audio buffer.
// Data holds one slice per channel with amplitudes in [-1, 1].
// A Sample is immutable once decoded and safe to share between voices.
type Sample struct {
	SampleRate int
	Data       [][]float32
}

// NewSample allocates a silent sample with the given shape
func NewSample(sampleRate, channels, frames int) *Sample {
	data := make([][]float32, channels)
	for i := range data {
		data[i] = make([]float32, frames)
	}
	return &Sample{SampleRate: sampleRate, Data: data}
}

// Channels returns the channel count
func (s *Sample) Channels() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// Frames returns the number of sample frames per channel
func (s *Sample) Frames() int {
	if s == nil || len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Duration returns the length in seconds
func (s *Sample) Duration() float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.SampleRate)
}

// Channel returns the data of channel i, or nil when out of range
func (s *Sample) Channel(i int) []float32 {
	if s == nil || i < 0 || i >= len(s.Data) {
		return nil
	}
	return s.Data[i]
}

// FrameAt converts a time offset to a frame index clamped to [0, Frames]
func (s *Sample) FrameAt(seconds float64) int {
	frame := int(math.Round(seconds * float64(s.SampleRate)))
	if frame < 0 {
		return 0
	}
	if n := s.Frames(); frame > n {
		return n
	}
	return frame
}

// Deinterleave splits interleaved float samples into per-channel slices
func Deinterleave(interleaved []float32, channels int) [][]float32 {
	if channels <= 0 {
		return nil
	}
	frames := len(interleaved) / channels
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[ch][i] = interleaved[i*channels+ch]
		}
	}
	return data
}

// FloatToInt16 converts a [-1, 1] float sample to int16 with clipping
func FloatToInt16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * math.MaxInt16)
}

// Int16ToFloat converts an int16 sample to [-1, 1]
func Int16ToFloat(v int16) float32 {
	return float32(v) / 32768
}

// IntToFloat converts an integer sample of the given bit depth to [-1, 1]
func IntToFloat(v int, bitDepth int) float32 {
	if bitDepth <= 0 {
		return 0
	}
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
