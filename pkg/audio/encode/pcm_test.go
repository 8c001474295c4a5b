// ABOUTME: Unit tests for the PCM encoder and WAV writer
// ABOUTME: Checks byte layout and that written WAV files decode back
package encode

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/go-audio/wav"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		errContains string
	}{
		{"valid 16-bit", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16}, ""},
		{"invalid codec", audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}, "invalid codec"},
		{"unsupported bit depth", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 24}, "unsupported bit depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.errContains == "" {
				if err != nil || encoder == nil {
					t.Fatalf("unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestPCMEncoder_Encode(t *testing.T) {
	encoder, _ := NewPCM(audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 1, BitDepth: 16})
	out, err := encoder.Encode([]float32{0, 1, -1, 2})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(out) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(out))
	}

	want := []int16{0, 32767, -32767, 32767}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(out[i*2:])); got != w {
			t.Errorf("sample %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	w, err := NewWAVFile(path, audio.Format{SampleRate: 44100, Channels: 2})
	if err != nil {
		t.Fatalf("NewWAVFile failed: %v", err)
	}
	if err := w.Write([]float32{0.5, -0.5, 0.25, -0.25}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write([]float32{0.1}); err == nil {
		t.Error("expected error for partial frame")
	}
	if w.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", w.Frames())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("written file is not a valid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if len(buf.Data) != 4 || buf.Format.NumChannels != 2 {
		t.Errorf("unexpected wav contents: %d samples, %d channels", len(buf.Data), buf.Format.NumChannels)
	}
	if buf.Data[0] != 16383 {
		t.Errorf("expected 16383, got %d", buf.Data[0])
	}
}

func TestMimeTypeAndExtension(t *testing.T) {
	if MimeType(ContainerOggOpus) != "audio/ogg; codecs=opus" || Extension(ContainerOggOpus) != ".ogg" {
		t.Error("unexpected ogg metadata")
	}
	if MimeType("WAV") != "audio/wav" || Extension("") != ".wav" {
		t.Error("unexpected wav metadata")
	}
}
