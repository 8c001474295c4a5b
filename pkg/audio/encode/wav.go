// ABOUTME: Streaming WAV file writer built on go-audio/wav
// ABOUTME: Writes 16-bit PCM and patches the header on Close
package encode

import (
	"fmt"
	"os"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVFile writes a 16-bit PCM WAV file
type WAVFile struct {
	f        *os.File
	enc      *wav.Encoder
	channels int
	format   *goaudio.Format
	frames   int
}

// NewWAVFile creates path and prepares a WAV encoder
func NewWAVFile(path string, format audio.Format) (*WAVFile, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav format: %dHz %dch", format.SampleRate, format.Channels)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create wav file: %w", err)
	}
	return &WAVFile{
		f:        f,
		enc:      wav.NewEncoder(f, format.SampleRate, 16, format.Channels, 1),
		channels: format.Channels,
		format:   &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
	}, nil
}

// Write appends interleaved samples
func (w *WAVFile) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), w.channels)
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(audio.FloatToInt16(s))
	}
	buf := &goaudio.IntBuffer{Format: w.format, Data: data, SourceBitDepth: 16}
	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	w.frames += len(samples) / w.channels
	return nil
}

// Frames returns the number of frames written
func (w *WAVFile) Frames() int {
	return w.frames
}

// Close finalises the header and closes the file
func (w *WAVFile) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to finalise wav: %w", err)
	}
	return w.f.Close()
}
