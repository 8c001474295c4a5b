// ABOUTME: Audio output interface definition
// ABOUTME: Backends pull 16-bit PCM from the master mix reader
package output

import (
	"io"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

// Output represents an audio output device.
// The backend pulls interleaved 16-bit little-endian PCM from src on its own goroutine.
type Output interface {
	// Open initializes the device and starts pulling from src
	Open(format audio.Format, src io.Reader) error

	// Close stops playback and releases output resources
	Close() error
}

// New returns the named backend: "oto" for speakers or "null" for a silent clock
func New(name string) Output {
	if name == "null" {
		return NewNull()
	}
	return NewOto()
}
