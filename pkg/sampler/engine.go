// ABOUTME: Sampler engine owning decoded buffers, slot settings and playback
// ABOUTME: Loads presets in parallel and plays trimmed windows through the mixer
package sampler

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves the encoded bytes of a sample
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Decoder turns encoded bytes into a sample; name is a format hint
type Decoder interface {
	Decode(data []byte, name string) (*audio.Sample, error)
}

// Config holds engine configuration
type Config struct {
	// Output is the mixer format; the backend must be opened with the same format
	Output audio.Format

	// MaxParallelLoads bounds concurrent fetch+decode work during LoadPreset
	MaxParallelLoads int

	Fetcher Fetcher
	Decoder Decoder

	// OnLoadError is called for every sample that fails to load
	OnLoadError func(*LoadError)

	// RecordDir and RecordFormat configure StartRecording
	RecordDir    string
	RecordFormat string

	Debug bool
}

// Engine is the sampler core: one buffer and one Settings entry per slot.
// A preset load replaces both atomically.
type Engine struct {
	config   Config
	mixer    *Mixer
	recorder *Recorder
	slots    *Slots

	mu         sync.RWMutex
	buffers    []*audio.Sample
	generation uint64
	cancelLoad context.CancelFunc
}

// New creates an engine
func New(config Config) (*Engine, error) {
	if config.Output.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: output sample rate must be positive", ErrConfiguration)
	}
	if config.Fetcher == nil || config.Decoder == nil {
		return nil, fmt.Errorf("%w: fetcher and decoder are required", ErrConfiguration)
	}
	if config.MaxParallelLoads <= 0 {
		config.MaxParallelLoads = 4
	}
	if config.RecordDir == "" {
		config.RecordDir = "recordings"
	}

	mixer := NewMixer(config.Output)
	return &Engine{
		config:   config,
		mixer:    mixer,
		recorder: NewRecorder(mixer, config.RecordDir, config.RecordFormat),
		slots:    NewSlots(),
	}, nil
}

// Mixer returns the master mix for the output backend
func (e *Engine) Mixer() *Mixer {
	return e.mixer
}

// LoadPreset fetches and decodes every url in parallel and resets all slot
// settings to defaults for canvasWidth. Samples that fail to load are nil in
// the result. If another LoadPreset starts before this one finishes, this one
// returns ErrSuperseded and leaves the registry alone.
func (e *Engine) LoadPreset(ctx context.Context, urls []string, canvasWidth int) ([]*audio.Sample, error) {
	if canvasWidth <= 0 {
		return nil, fmt.Errorf("%w: canvas width must be positive, got %d", ErrConfiguration, canvasWidth)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.cancelLoad != nil {
		e.cancelLoad()
	}
	e.generation++
	gen := e.generation
	e.cancelLoad = cancel
	e.mu.Unlock()

	log.Printf("Loading preset: %d samples", len(urls))

	buffers := make([]*audio.Sample, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.MaxParallelLoads)
	for i, url := range urls {
		g.Go(func() error {
			sample, err := e.loadSound(gctx, url)
			if err != nil {
				// A cancelled load reports nothing; the caller gets ErrSuperseded or ctx.Err
				if gctx.Err() == nil {
					e.reportLoadError(&LoadError{Index: i, URL: url, Err: err})
				}
				return nil
			}
			buffers[i] = sample
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return nil, ErrSuperseded
	}
	e.cancelLoad = nil
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.buffers = buffers
	e.slots.Reset(len(buffers), canvasWidth)

	loaded := 0
	for _, b := range buffers {
		if b != nil {
			loaded++
		}
	}
	log.Printf("Loaded %d of %d sounds", loaded, len(buffers))
	return buffers, nil
}

func (e *Engine) loadSound(ctx context.Context, url string) (*audio.Sample, error) {
	data, err := e.config.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	sample, err := e.config.Decoder.Decode(data, path.Base(url))
	if err != nil {
		return nil, err
	}
	if sample.SampleRate != e.config.Output.SampleRate {
		log.Printf("Warning: %s is %dHz, output is %dHz; playing without conversion",
			path.Base(url), sample.SampleRate, e.config.Output.SampleRate)
	}
	if e.config.Debug {
		log.Printf("[DEBUG] Decoded %s: %d channels, %.3fs", url, sample.Channels(), sample.Duration())
	}
	return sample, nil
}

func (e *Engine) reportLoadError(err *LoadError) {
	log.Printf("Error loading sound: %v", err)
	if e.config.OnLoadError != nil {
		e.config.OnLoadError(err)
	}
}

// Len returns the number of slots of the current preset
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.buffers)
}

// GetBuffer returns the decoded sample of slot i, or nil
func (e *Engine) GetBuffer(i int) *audio.Sample {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i < 0 || i >= len(e.buffers) {
		return nil
	}
	return e.buffers[i]
}

// GetSettings returns a copy of the settings of slot i
func (e *Engine) GetSettings(i int) (Settings, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slots.Get(i)
}

// UpdateTrim commits trims in canvas pixels, clamped and ordered
func (e *Engine) UpdateTrim(i int, startPixel, endPixel float64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slots.UpdateTrim(i, startPixel, endPixel)
}

// UpdateSoundSetting changes volume (0..1) or pan (-1..1) of slot i
func (e *Engine) UpdateSoundSetting(i int, setting Setting, value float64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slots.UpdateSetting(i, setting, value)
}

// TimeWindow converts the trims of slot i into seconds
func (e *Engine) TimeWindow(i int) (start, end float64, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.window(i)
}

func (e *Engine) window(i int) (float64, float64, bool) {
	if i < 0 || i >= len(e.buffers) || e.buffers[i] == nil {
		return 0, 0, false
	}
	settings, ok := e.slots.Get(i)
	if !ok || settings.CanvasWidth <= 0 {
		return 0, 0, false
	}
	d := e.buffers[i].Duration()
	return canvas.PixelToSeconds(settings.TrimStart, d, settings.CanvasWidth),
		canvas.PixelToSeconds(settings.TrimEnd, d, settings.CanvasWidth), true
}

// PlaySound plays the trimmed window of slot i with its volume and pan.
// It returns nil without error when the slot has no buffer or the window is empty.
func (e *Engine) PlaySound(i int) *Voice {
	e.mu.RLock()
	start, end, ok := e.window(i)
	var (
		buf      *audio.Sample
		settings Settings
	)
	if ok {
		buf = e.buffers[i]
		settings, _ = e.slots.Get(i)
	}
	e.mu.RUnlock()

	if !ok || end <= start {
		return nil
	}

	v := newVoice(buf, buf.FrameAt(start), buf.FrameAt(end), settings.Volume, settings.Pan)
	if v.Frames() <= 0 {
		return nil
	}
	e.mixer.Add(v)
	if e.config.Debug {
		log.Printf("[DEBUG] Playing slot %d: %.3fs-%.3fs vol=%.2f pan=%.2f", i, start, end, settings.Volume, settings.Pan)
	}
	return v
}

// StartRecording begins recording the master mix. It is a no-op when already recording.
func (e *Engine) StartRecording() error {
	return e.recorder.Start()
}

// Recording reports whether a recording is in progress
func (e *Engine) Recording() bool {
	return e.recorder.Recording()
}

// StopRecording ends the recording and calls onStop with the finished artifact
// once the file is finalised. It is a no-op when not recording.
func (e *Engine) StopRecording(onStop func(RecordingArtifact, error)) {
	rec := e.recorder.detach()
	if rec == nil {
		return
	}
	go func() {
		artifact, err := e.recorder.finish(rec)
		if onStop != nil {
			onStop(artifact, err)
		}
	}()
}
