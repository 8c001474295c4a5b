// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Sample and Format types and sample conversion functions
// Package audio provides the fundamental audio types shared by the sampler.
//
// This package defines:
//   - Sample: a decoded buffer with one float32 slice per channel
//   - Format: describes an output or recording stream (rate, channels, bit depth)
//
// It also provides conversions between float amplitudes and integer PCM.
//
// Example:
//
//	s := audio.NewSample(44100, 2, 44100)
//	fmt.Println(s.Duration()) // 1
//	pcm := audio.FloatToInt16(s.Channel(0)[0])
package audio
