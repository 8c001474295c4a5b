// ABOUTME: Opus audio encoder
// ABOUTME: Encodes 20ms frames of float samples to Opus packets
package encode

import (
	"fmt"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// maxOpusPacket is the largest packet libopus produces
const maxOpusPacket = 4000

// OpusEncoder encodes Opus audio
type OpusEncoder struct {
	encoder    *opus.Encoder
	sampleRate int
	channels   int
	frameSize  int
	buf        []byte
}

// NewOpus creates a new Opus encoder
func NewOpus(format audio.Format) (*OpusEncoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus encoder: %s", format.Codec)
	}

	encoder, err := opus.NewEncoder(format.SampleRate, format.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	return &OpusEncoder{
		encoder:    encoder,
		sampleRate: format.SampleRate,
		channels:   format.Channels,
		frameSize:  format.SampleRate / 50, // 20ms frame
		buf:        make([]byte, maxOpusPacket),
	}, nil
}

// FrameSize returns the number of frames per packet
func (e *OpusEncoder) FrameSize() int {
	return e.frameSize
}

// Encode converts exactly one packet worth of interleaved samples to Opus bytes
func (e *OpusEncoder) Encode(samples []float32) ([]byte, error) {
	if len(samples) != e.frameSize*e.channels {
		return nil, fmt.Errorf("opus frame must hold %d samples, got %d", e.frameSize*e.channels, len(samples))
	}

	n, err := e.encoder.EncodeFloat32(samples, e.buf)
	if err != nil {
		return nil, fmt.Errorf("opus encode error: %w", err)
	}

	packet := make([]byte, n)
	copy(packet, e.buf[:n])
	return packet, nil
}

// Close releases resources
func (e *OpusEncoder) Close() error {
	return nil
}
