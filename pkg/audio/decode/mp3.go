// ABOUTME: MP3 decoder built on go-mp3
// ABOUTME: go-mp3 always yields 16-bit little-endian stereo
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

const mp3Channels = 2

// DecodeMP3 decodes a complete MP3 file
func DecodeMP3(data []byte) (*audio.Sample, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	frames := len(raw) / (2 * mp3Channels)
	if frames == 0 {
		return nil, ErrNoAudio
	}

	s := audio.NewSample(dec.SampleRate(), mp3Channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < mp3Channels; ch++ {
			off := (i*mp3Channels + ch) * 2
			s.Data[ch][i] = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(raw[off:])))
		}
	}
	return s, nil
}
