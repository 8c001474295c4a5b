// ABOUTME: Audio decoder package for sample files
// ABOUTME: Provides the Decoder interface and WAV, AIFF, MP3, Ogg Vorbis and FLAC decoders
// Package decode turns complete audio files into audio.Sample values.
//
// Supports: WAV, AIFF, MP3, Ogg Vorbis, FLAC
//
// The Registry sniffs the content to pick a decoder and falls back to
// the file extension when the magic bytes are not recognised.
//
// Example:
//
//	reg := decode.DefaultRegistry()
//	sample, err := reg.Decode(data, "kick.wav")
package decode
