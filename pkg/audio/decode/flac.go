// ABOUTME: FLAC decoder built on mewkiz/flac
// ABOUTME: Parses frames one at a time and appends every subframe
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// DecodeFLAC decodes a complete FLAC file
func DecodeFLAC(data []byte) (*audio.Sample, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: flac stream has no channels", ErrInvalidFile)
	}

	out := make([][]float32, channels)
	if stream.Info.NSamples > 0 {
		for ch := range out {
			out[ch] = make([]float32, 0, stream.Info.NSamples)
		}
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame error: %w", err)
		}
		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, v := range frame.Subframes[ch].Samples {
				out[ch] = append(out[ch], audio.IntToFloat(int(v), bitDepth))
			}
		}
	}

	return &audio.Sample{SampleRate: int(stream.Info.SampleRate), Data: out}, nil
}
