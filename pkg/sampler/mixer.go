// ABOUTME: Polyphonic master mixer feeding the audio output
// ABOUTME: Sums active voices into 16-bit PCM and taps the mix for recording
package sampler

import (
	"math"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/encode"
)

// Voice is one playing window of a sample.
// Voices are independent; stopping one never affects another.
type Voice struct {
	sample *audio.Sample
	pos    int
	end    int
	gain   float64
	pan    float64

	mu       sync.Mutex
	stopped  bool
	done     chan struct{}
	doneOnce sync.Once
}

func newVoice(sample *audio.Sample, startFrame, endFrame int, gain, pan float64) *Voice {
	return &Voice{
		sample: sample,
		pos:    startFrame,
		end:    endFrame,
		gain:   gain,
		pan:    pan,
		done:   make(chan struct{}),
	}
}

// Done is closed once the voice has finished or was stopped and released
func (v *Voice) Done() <-chan struct{} {
	return v.done
}

// Stop ends the voice early
func (v *Voice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

// Frames returns the length of the voice's window
func (v *Voice) Frames() int {
	return v.end - v.pos
}

func (v *Voice) isStopped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopped
}

func (v *Voice) release() {
	v.doneOnce.Do(func() {
		close(v.done)
	})
}

// next returns the next frame after gain and pan, and false when exhausted
func (v *Voice) next(outChannels int) (l, r float64, ok bool) {
	if v.pos >= v.end {
		return 0, 0, false
	}
	in := v.sample.Data
	if len(in) == 1 {
		x := float64(in[0][v.pos]) * v.gain
		v.pos++
		if outChannels == 1 {
			return x, 0, true
		}
		l, r = panMono(x, v.pan)
		return l, r, true
	}

	inL := float64(in[0][v.pos]) * v.gain
	inR := float64(in[1][v.pos]) * v.gain
	v.pos++
	if outChannels == 1 {
		return (inL + inR) / 2, 0, true
	}
	l, r = panStereo(inL, inR, v.pan)
	return l, r, true
}

// panMono applies an equal-power pan to a mono signal
func panMono(x, pan float64) (float64, float64) {
	p := (pan + 1) / 2 * math.Pi / 2
	return x * math.Cos(p), x * math.Sin(p)
}

// panStereo pans a stereo signal by folding one side into the other.
// At pan 0 the input passes through unchanged.
func panStereo(inL, inR, pan float64) (float64, float64) {
	if pan <= 0 {
		p := (pan + 1) * math.Pi / 2
		return inL + inR*math.Cos(p), inR * math.Sin(p)
	}
	p := pan * math.Pi / 2
	return inL * math.Cos(p), inR + inL*math.Sin(p)
}

// Mixer sums voices into interleaved 16-bit little-endian PCM.
// It implements io.Reader so an output backend can pull from it.
type Mixer struct {
	format audio.Format

	mu     sync.Mutex
	voices []*Voice
	tap    func([]float32)
	mix    []float32
}

// NewMixer creates a mixer for the output format. Only 1 or 2 channels are supported.
func NewMixer(format audio.Format) *Mixer {
	if format.Channels != 1 {
		format.Channels = 2
	}
	return &Mixer{format: format}
}

// Format returns the output format
func (m *Mixer) Format() audio.Format {
	return m.format
}

// Add starts a voice
func (m *Mixer) Add(v *Voice) {
	m.mu.Lock()
	m.voices = append(m.voices, v)
	m.mu.Unlock()
}

// Active returns the number of voices still playing
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// StopAll stops every playing voice
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.voices {
		v.Stop()
	}
}

// SetTap installs a function that receives every mixed block as interleaved
// floats. It is called on the audio goroutine and must not block or retain the slice.
func (m *Mixer) SetTap(tap func([]float32)) {
	m.mu.Lock()
	m.tap = tap
	m.mu.Unlock()
}

// Read fills p with whole frames of mixed audio and never returns an error
func (m *Mixer) Read(p []byte) (int, error) {
	channels := m.format.Channels
	frames := len(p) / (2 * channels)
	n := frames * channels

	m.mu.Lock()
	if cap(m.mix) < n {
		m.mix = make([]float32, n)
	}
	mix := m.mix[:n]
	clear(mix)

	live := m.voices[:0]
	for _, v := range m.voices {
		if v.isStopped() {
			v.release()
			continue
		}
		finished := false
		for f := 0; f < frames; f++ {
			l, r, ok := v.next(channels)
			if !ok {
				finished = true
				break
			}
			if channels == 1 {
				mix[f] += float32(l)
			} else {
				mix[f*2] += float32(l)
				mix[f*2+1] += float32(r)
			}
		}
		if finished || v.pos >= v.end {
			v.release()
			continue
		}
		live = append(live, v)
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	for i, s := range mix {
		if s > 1 {
			mix[i] = 1
		} else if s < -1 {
			mix[i] = -1
		}
	}
	if m.tap != nil {
		m.tap(mix)
	}
	m.mu.Unlock()

	encode.PutInt16LE(p, mix)
	return n * 2, nil
}
