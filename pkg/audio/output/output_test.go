// ABOUTME: Audio output tests
// ABOUTME: Verifies Output implementations and the null drain loop
package output

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

func TestOtoImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
}

func TestNullImplementsOutput(t *testing.T) {
	var _ Output = (*Null)(nil)
}

func TestNewSelectsBackend(t *testing.T) {
	if _, ok := New("null").(*Null); !ok {
		t.Error("expected Null backend")
	}
	if _, ok := New("oto").(*Oto); !ok {
		t.Error("expected Oto backend")
	}
}

// countingReader fills buffers with silence and counts bytes read
type countingReader struct {
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	clear(p)
	c.n.Add(int64(len(p)))
	return len(p), nil
}

func TestNullDrainsSource(t *testing.T) {
	src := &countingReader{}
	out := NewNull()
	if err := out.Open(audio.Format{SampleRate: 48000, Channels: 2}, src); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for src.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if src.n.Load() == 0 {
		t.Fatal("null output never read from the source")
	}
	if src.n.Load()%4 != 0 {
		t.Errorf("expected whole stereo frames, got %d bytes", src.n.Load())
	}

	// Close is idempotent
	if err := out.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestNullRejectsBadFormat(t *testing.T) {
	if err := NewNull().Open(audio.Format{}, &countingReader{}); err == nil {
		t.Error("expected error for empty format")
	}
}

func TestVolumeMultiplier(t *testing.T) {
	tests := []struct {
		volume   int
		muted    bool
		expected float64
	}{
		{100, false, 1},
		{50, false, 0.5},
		{0, false, 0},
		{80, true, 0},
	}
	for _, tt := range tests {
		if got := getVolumeMultiplier(tt.volume, tt.muted); got != tt.expected {
			t.Errorf("getVolumeMultiplier(%d, %v) = %v, want %v", tt.volume, tt.muted, got, tt.expected)
		}
	}

	o := NewOto()
	o.SetVolume(150)
	if o.GetVolume() != 100 {
		t.Errorf("expected clamp to 100, got %d", o.GetVolume())
	}
	o.SetMuted(true)
	if !o.IsMuted() {
		t.Error("expected muted")
	}
}
