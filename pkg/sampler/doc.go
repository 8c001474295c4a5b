// ABOUTME: Sampler core package
// ABOUTME: Slot registry, preset loading, playback, recording and input mapping
// Package sampler implements the sound-pad engine.
//
// An Engine holds one decoded sample and one Settings entry per pad. Trims
// are stored in canvas pixels and converted to a time window when a pad is
// played. Voices are mixed by a Mixer, which an output backend pulls from.
//
// Example:
//
//	eng, err := sampler.New(sampler.Config{
//	    Output:  audio.Format{SampleRate: 48000, Channels: 2},
//	    Fetcher: client,
//	    Decoder: decode.DefaultRegistry(),
//	})
//	buffers, err := eng.LoadPreset(ctx, urls, 800)
//	eng.UpdateTrim(0, 100, 500)
//	eng.PlaySound(0)
package sampler
