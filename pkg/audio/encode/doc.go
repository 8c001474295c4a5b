// ABOUTME: Audio encoder package for the master mix
// ABOUTME: Provides PCM and Opus encoders plus WAV and Ogg/Opus recording files
// Package encode provides audio encoders and recording file writers.
//
// Supports: 16-bit PCM, Opus packets, WAV files, Ogg/Opus files
//
// All encoders accept interleaved float32 samples in [-1, 1].
//
// Example:
//
//	w, err := encode.NewWAVFile("take.wav", audio.Format{SampleRate: 48000, Channels: 2})
//	err = w.Write(samples)
//	err = w.Close()
package encode
