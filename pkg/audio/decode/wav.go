// ABOUTME: WAV decoder built on go-audio/wav
// ABOUTME: Supports integer PCM at any bit depth go-audio can read
package decode

import (
	"bytes"
	"fmt"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV decodes a complete WAV file
func DecodeWAV(data []byte) (*audio.Sample, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrInvalidFile)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing wav format", ErrInvalidFile)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	return fromInterleavedInts(buf.Data, buf.Format.NumChannels, buf.Format.SampleRate, bitDepth), nil
}

// fromInterleavedInts converts go-audio integer PCM to a float sample.
// 8-bit PCM is unsigned and is recentred around zero.
func fromInterleavedInts(data []int, channels, sampleRate, bitDepth int) *audio.Sample {
	frames := len(data) / channels
	s := audio.NewSample(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := data[i*channels+ch]
			if bitDepth == 8 {
				v -= 128
			}
			s.Data[ch][i] = audio.IntToFloat(v, bitDepth)
		}
	}
	return s
}
