// ABOUTME: Encoder and file writer interfaces
// ABOUTME: Encoders take interleaved float frames from the master mix
package encode

import "strings"

// Encoder encodes interleaved float samples to a wire format
type Encoder interface {
	// Encode converts samples to encoded audio data
	Encode(samples []float32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}

// FileWriter streams interleaved float samples into an audio file
type FileWriter interface {
	// Write appends interleaved samples; the length must be a multiple of the channel count
	Write(samples []float32) error

	// Frames returns the number of frames written so far
	Frames() int

	// Close flushes and finalises the file
	Close() error
}

// Recording container formats
const (
	ContainerWAV     = "wav"
	ContainerOggOpus = "ogg"
)

// MimeType returns the MIME type of a recording container
func MimeType(container string) string {
	switch strings.ToLower(container) {
	case ContainerOggOpus:
		return "audio/ogg; codecs=opus"
	default:
		return "audio/wav"
	}
}

// Extension returns the file extension of a recording container, with the dot
func Extension(container string) string {
	switch strings.ToLower(container) {
	case ContainerOggOpus:
		return ".ogg"
	default:
		return ".wav"
	}
}
