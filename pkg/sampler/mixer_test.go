// ABOUTME: Tests for the master mixer and pan law
// ABOUTME: Checks gain, equal-power panning, clipping and early stop
package sampler

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestPanMono(t *testing.T) {
	tests := []struct {
		pan   float64
		wantL float64
		wantR float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{1, 0, 1},
	}
	for _, tt := range tests {
		l, r := panMono(1, tt.pan)
		if !approx(l, tt.wantL) || !approx(r, tt.wantR) {
			t.Errorf("pan %v: expected (%v, %v), got (%v, %v)", tt.pan, tt.wantL, tt.wantR, l, r)
		}
		if !approx(l*l+r*r, 1) {
			t.Errorf("pan %v: power not preserved", tt.pan)
		}
	}
}

func TestPanStereo(t *testing.T) {
	l, r := panStereo(0.5, 0.25, 0)
	if !approx(l, 0.5) || !approx(r, 0.25) {
		t.Errorf("centre should pass through, got (%v, %v)", l, r)
	}
	l, r = panStereo(0.5, 0.25, -1)
	if !approx(l, 0.75) || !approx(r, 0) {
		t.Errorf("hard left should fold right into left, got (%v, %v)", l, r)
	}
	l, r = panStereo(0.5, 0.25, 1)
	if !approx(l, 0) || !approx(r, 0.75) {
		t.Errorf("hard right should fold left into right, got (%v, %v)", l, r)
	}
}

func int16At(buf []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[i*2:]))
}

func TestMixerGainAndClip(t *testing.T) {
	m := NewMixer(audio.Format{SampleRate: 1000, Channels: 2})
	s := audio.NewSample(1000, 2, 4)
	for i := range s.Data[0] {
		s.Data[0][i] = 0.8
		s.Data[1][i] = 0.8
	}

	m.Add(newVoice(s, 0, 4, 0.5, 0))
	buf := drain(m, 1)
	if got := int16At(buf, 0); got != audio.FloatToInt16(0.4) {
		t.Errorf("expected half gain, got %d", got)
	}

	// three full-gain voices sum past full scale
	for i := 0; i < 3; i++ {
		m.Add(newVoice(s, 0, 4, 1, 0))
	}
	buf = drain(m, 1)
	if got := int16At(buf, 0); got != math.MaxInt16 {
		t.Errorf("expected clipped sample, got %d", got)
	}
}

func TestMixerSilenceWithoutVoices(t *testing.T) {
	m := NewMixer(audio.Format{SampleRate: 1000, Channels: 2})
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = 0xAA
	}
	n, err := m.Read(buf)
	if err != nil || n != 16 {
		t.Fatalf("expected 16 bytes, got %d (%v)", n, err)
	}
	for i := 0; i < 8; i++ {
		if int16At(buf, i) != 0 {
			t.Fatal("expected silence")
		}
	}
}

func TestVoiceStop(t *testing.T) {
	m := NewMixer(audio.Format{SampleRate: 1000, Channels: 2})
	s := ramp(1000, 1000)
	a := newVoice(s, 0, 1000, 1, 0)
	b := newVoice(s, 0, 1000, 1, 0)
	m.Add(a)
	m.Add(b)

	a.Stop()
	drain(m, 10)

	select {
	case <-a.Done():
	default:
		t.Error("stopped voice should be released")
	}
	select {
	case <-b.Done():
		t.Error("other voice must keep playing")
	default:
	}
	if m.Active() != 1 {
		t.Errorf("expected 1 active voice, got %d", m.Active())
	}

	m.StopAll()
	drain(m, 1)
	if m.Active() != 0 {
		t.Errorf("expected no active voices, got %d", m.Active())
	}
}

func TestMixerTap(t *testing.T) {
	m := NewMixer(audio.Format{SampleRate: 1000, Channels: 2})
	var got int
	m.SetTap(func(block []float32) { got += len(block) })
	drain(m, 32)
	if got != 64 {
		t.Errorf("expected 64 tapped samples, got %d", got)
	}
	m.SetTap(nil)
	drain(m, 32)
	if got != 64 {
		t.Error("tap should be removed")
	}
}

func TestMixerMonoOutput(t *testing.T) {
	m := NewMixer(audio.Format{SampleRate: 1000, Channels: 1})
	s := audio.NewSample(1000, 2, 2)
	s.Data[0][0], s.Data[1][0] = 0.5, 0.25
	m.Add(newVoice(s, 0, 2, 1, -1))
	buf := drain(m, 1)
	if len(buf) != 2 {
		t.Fatalf("expected one mono frame, got %d bytes", len(buf))
	}
	if got := int16At(buf, 0); got != audio.FloatToInt16(0.375) {
		t.Errorf("mono output should average channels ignoring pan, got %d", got)
	}
}
