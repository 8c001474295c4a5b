// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float samples to 16-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct{}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	return &PCMEncoder{}, nil
}

// Encode converts float samples to PCM bytes
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	out := make([]byte, len(samples)*2)
	PutInt16LE(out, samples)
	return out, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// PutInt16LE writes samples into dst as 16-bit little-endian PCM.
// dst must hold at least 2*len(samples) bytes.
func PutInt16LE(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(audio.FloatToInt16(s)))
	}
}
