// ABOUTME: AIFF decoder built on go-audio/aiff
// ABOUTME: Reads the PCM stream in chunks until the decoder is drained
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

const aiffChunkSamples = 8192

// DecodeAIFF decodes a complete AIFF or AIFF-C file
func DecodeAIFF(data []byte) (*audio.Sample, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an aiff file", ErrInvalidFile)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing aiff format", ErrInvalidFile)
	}

	buf := &goaudio.IntBuffer{Data: make([]int, aiffChunkSamples), Format: format}
	var pcm []int
	for {
		n, err := dec.PCMBuffer(buf)
		pcm = append(pcm, buf.Data[:n]...)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read aiff pcm: %w", err)
		}
		if n == 0 || err != nil {
			break
		}
	}

	return fromInterleavedInts(pcm, format.NumChannels, format.SampleRate, int(dec.BitDepth)), nil
}
