// ABOUTME: Ogg Vorbis decoder built on jfreymuth/oggvorbis
// ABOUTME: Decodes the whole stream to interleaved floats then splits channels
package decode

import (
	"bytes"
	"fmt"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// DecodeVorbis decodes a complete Ogg Vorbis file
func DecodeVorbis(data []byte) (*audio.Sample, error) {
	pcm, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}
	if format == nil || format.Channels <= 0 {
		return nil, fmt.Errorf("%w: missing vorbis format", ErrInvalidFile)
	}
	return &audio.Sample{
		SampleRate: format.SampleRate,
		Data:       audio.Deinterleave(pcm, format.Channels),
	}, nil
}
