// ABOUTME: Audio output package for playing the master mix
// ABOUTME: Provides the Output interface with oto and null implementations
// Package output provides audio playback backends.
//
// Backends pull 16-bit PCM from an io.Reader, normally the sampler's
// master mixer. Oto plays through the system audio device; Null drains the
// reader at real-time speed without a device.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(audio.Format{SampleRate: 48000, Channels: 2}, mixer)
package output
