// ABOUTME: Decoder interface and format registry
// ABOUTME: Picks a decoder by magic bytes, falling back to the file extension
package decode

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

// Decoder turns a complete encoded file into a decoded sample
type Decoder interface {
	Decode(data []byte) (*audio.Sample, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(data []byte) (*audio.Sample, error)

// Decode calls f(data)
func (f DecoderFunc) Decode(data []byte) (*audio.Sample, error) {
	return f(data)
}

// Format names understood by the default registry
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatMP3    = "mp3"
	FormatVorbis = "ogg"
	FormatFLAC   = "flac"
)

// Registry maps format names to decoders
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatWAV, DecoderFunc(DecodeWAV))
	r.Register(FormatAIFF, DecoderFunc(DecodeAIFF))
	r.Register(FormatMP3, DecoderFunc(DecodeMP3))
	r.Register(FormatVorbis, DecoderFunc(DecodeVorbis))
	r.Register(FormatFLAC, DecoderFunc(DecodeFLAC))
	return r
}

// Register adds or replaces the decoder for a format
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[strings.ToLower(format)] = d
}

// Lookup returns the decoder for a format
func (r *Registry) Lookup(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[strings.ToLower(format)]
	return d, ok
}

// Decode detects the format of data and decodes it.
// name is only used as a hint when the content is not recognised.
func (r *Registry) Decode(data []byte, name string) (*audio.Sample, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	format := Detect(data, name)
	if format == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	d, ok := r.Lookup(format)
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %s", ErrUnknownFormat, format)
	}
	sample, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s as %s: %w", name, format, err)
	}
	return sample, nil
}

// Detect returns the format name for data, or "" if unknown
func Detect(data []byte, name string) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("FORM")) &&
		(bytes.Equal(data[8:12], []byte("AIFF")) || bytes.Equal(data[8:12], []byte("AIFC"))):
		return FormatAIFF
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatVorbis
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}

	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "wav", "wave":
		return FormatWAV
	case "aif", "aiff", "aifc":
		return FormatAIFF
	case "mp3":
		return FormatMP3
	case "ogg", "oga":
		return FormatVorbis
	case "flac":
		return FormatFLAC
	}
	return ""
}
