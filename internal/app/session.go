// ABOUTME: Sampler session: the single event loop behind every front-end
// ABOUTME: Owns the engine, the selected slot, the trim bars and the canvases
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
	"github.com/Resonate-Protocol/padsampler-go/pkg/protocol"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	"github.com/Resonate-Protocol/padsampler-go/pkg/trimbar"
	"github.com/Resonate-Protocol/padsampler-go/pkg/waveform"
)

// PresetService is the preset server as seen by the session
type PresetService interface {
	BaseURL() string
	ListPresets(ctx context.Context) (map[string]presets.Preset, error)
	DeletePreset(ctx context.Context, p presets.Preset) error
}

// Observer receives session output on the loop goroutine; it must not block
type Observer interface {
	SessionChanged(f Frame)
	PadPlayed(index int, source string)
	RecordingStopped(artifact sampler.RecordingArtifact)
}

// Config holds session configuration
type Config struct {
	CanvasWidth  int     // trim pixel domain and raster width
	CanvasHeight int     // raster height
	GridWidth    int     // terminal canvas columns
	GridHeight   int     // terminal canvas rows
	HitRadius    float64 // trim bar hover tolerance in canvas pixels
	FrameRate    int
	Debug        bool
}

var (
	waveColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	canvasBackground = color.RGBA{R: 24, G: 24, B: 24, A: 255}
)

// Session runs the sampler event loop
type Session struct {
	config  Config
	engine  *sampler.Engine
	service PresetService

	events    chan sampler.Event
	results   chan func()
	observers []Observer
	done      chan struct{}
	stopOnce  sync.Once

	// Owned by the loop goroutine
	ctx         context.Context
	presetList  map[string]presets.Preset
	presetKeys  []string
	current     presets.Preset
	loaded      bool
	loading     bool
	loadGen     uint64
	selected    int
	trim        *trimbar.Controller
	renderer    waveform.Renderer
	waveImg     *canvas.Image
	trimImg     *canvas.Image
	waveGrid    *canvas.Grid
	trimGrid    *canvas.Grid
	status      string
	lastPad     int
	lastPadAt   time.Time
	lastRecord  *sampler.RecordingArtifact
	version     uint64
	dirty       bool
	lastVersion uint64

	stateMu sync.RWMutex
	state   protocol.SessionState
}

// New creates a session around an engine and a preset service
func New(config Config, engine *sampler.Engine, service PresetService) (*Session, error) {
	if config.CanvasWidth <= 0 || config.CanvasHeight <= 0 {
		return nil, fmt.Errorf("%w: canvas must be at least 1x1, got %dx%d",
			sampler.ErrConfiguration, config.CanvasWidth, config.CanvasHeight)
	}
	if engine == nil || service == nil {
		return nil, fmt.Errorf("%w: engine and preset service are required", sampler.ErrConfiguration)
	}
	if config.GridWidth <= 0 {
		config.GridWidth = 64
	}
	if config.GridHeight <= 0 {
		config.GridHeight = 8
	}
	if config.FrameRate <= 0 {
		config.FrameRate = 60
	}

	trim := trimbar.New(config.CanvasWidth)
	if config.HitRadius > 0 {
		trim.SetHitRadius(config.HitRadius)
	}

	return &Session{
		config:   config,
		engine:   engine,
		service:  service,
		events:   make(chan sampler.Event, 256),
		results:  make(chan func(), 16),
		done:     make(chan struct{}),
		selected: -1,
		lastPad:  -1,
		trim:     trim,
		waveImg:  canvas.NewImage(config.CanvasWidth, config.CanvasHeight),
		trimImg:  canvas.NewImage(config.CanvasWidth, config.CanvasHeight),
		waveGrid: canvas.NewGrid(config.GridWidth, config.GridHeight, '│'),
		trimGrid: canvas.NewGrid(config.GridWidth, config.GridHeight, '┃'),
		dirty:    true,
	}, nil
}

// AddObserver registers an observer; call before Run
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Config returns the session configuration with defaults applied
func (s *Session) Config() Config {
	return s.config
}

// Post queues an event without blocking. It returns false when the queue is
// full or the session has stopped.
func (s *Session) Post(ev sampler.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// postWait queues an event, waiting for room until the session stops
func (s *Session) postWait(ev sampler.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// State returns the latest remote-facing snapshot; safe from any goroutine
func (s *Session) State() protocol.SessionState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Run processes events until ctx is cancelled. It loads the preset list first.
func (s *Session) Run(ctx context.Context) error {
	defer s.stop()
	s.ctx = ctx

	ticker := time.NewTicker(time.Second / time.Duration(s.config.FrameRate))
	defer ticker.Stop()

	s.refreshPresets()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case ev := <-s.events:
			s.handle(ev)
		case apply := <-s.results:
			apply()
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) shutdown() {
	s.engine.Mixer().StopAll()
	if s.engine.Recording() {
		log.Printf("Finishing recording before exit")
		finished := make(chan struct{})
		s.engine.StopRecording(func(a sampler.RecordingArtifact, err error) {
			if err != nil {
				log.Printf("Recording failed: %v", err)
			} else {
				log.Printf("Saved recording %s", a.Path)
			}
			close(finished)
		})
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			log.Printf("Timed out finishing recording")
		}
	}
}

// async runs work off the loop and applies its result on the loop
func (s *Session) async(work func() func()) {
	go func() {
		apply := work()
		select {
		case s.results <- apply:
		case <-s.done:
		}
	}()
}

func (s *Session) handle(ev sampler.Event) {
	if s.config.Debug {
		if _, move := ev.(sampler.PointerMove); !move {
			log.Printf("[DEBUG] Session event: %#v", ev)
		}
	}

	switch ev := ev.(type) {
	case sampler.PointerMove:
		s.trim.MoveTrimBars(trimbar.Point{X: ev.X, Y: ev.Y})
		s.dirty = true

	case sampler.PointerDown:
		s.trim.MoveTrimBars(trimbar.Point{X: ev.X, Y: ev.Y})
		s.trim.StartDrag()
		s.dirty = true

	case sampler.PointerUp:
		s.trim.MoveTrimBars(trimbar.Point{X: ev.X, Y: ev.Y})
		if s.trim.StopDrag() {
			s.commitTrim()
		}
		s.dirty = true

	case sampler.PointerLeave:
		if s.trim.Leave() {
			s.commitTrim()
		}
		s.dirty = true

	case sampler.PadPressed:
		s.selectSound(ev.Index)
		s.play(ev.Index, "pad")

	case sampler.NoteOn:
		pad, ok := sampler.PadForNote(ev.Note, ev.Velocity)
		if !ok {
			return
		}
		s.selectSound(pad)
		s.play(pad, "midi")

	case sampler.SelectSample:
		s.selectSound(ev.Index)

	case sampler.TrimChanged:
		if s.engine.UpdateTrim(ev.Index, ev.Start, ev.End) {
			if ev.Index == s.selected {
				s.rebindTrim()
			}
			s.changed()
		}

	case sampler.SettingChanged:
		if s.engine.UpdateSoundSetting(ev.Index, ev.Setting, ev.Value) {
			s.changed()
		}

	case sampler.PresetsRefresh:
		s.refreshPresets()

	case sampler.PresetSelected:
		p, ok := s.presetList[ev.Key]
		if !ok {
			s.setStatus(fmt.Sprintf("Unknown preset %q", ev.Key))
			return
		}
		s.loadPreset(p)

	case sampler.PresetDeleteRequested:
		s.deletePreset(ev.Key)

	case sampler.RecordStart:
		if err := s.engine.StartRecording(); err != nil {
			s.setStatus(fmt.Sprintf("Recording failed: %v", err))
			return
		}
		s.setStatus("Recording...")

	case sampler.RecordStop:
		if !s.engine.Recording() {
			return
		}
		s.engine.StopRecording(func(a sampler.RecordingArtifact, err error) {
			s.postWait(sampler.RecordingStopped{Artifact: a, Err: err})
		})
		s.setStatus("Finishing recording...")

	case sampler.RecordingStopped:
		if ev.Err != nil {
			s.setStatus(fmt.Sprintf("Recording failed: %v", ev.Err))
			return
		}
		a := ev.Artifact
		s.lastRecord = &a
		s.setStatus(fmt.Sprintf("Saved %s (%.1fs)", a.Path, a.Duration.Seconds()))
		for _, o := range s.observers {
			o.RecordingStopped(a)
		}

	case sampler.ExportCanvas:
		if err := s.exportPNG(ev.Path); err != nil {
			s.setStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		s.setStatus("Wrote " + ev.Path)
	}
}

// selectSound shows slot i; slots without a buffer cannot be selected.
// Reselecting the shown slot leaves the bars and any drag alone.
func (s *Session) selectSound(i int) bool {
	if i == s.selected {
		return true
	}
	buf := s.engine.GetBuffer(i)
	if buf == nil {
		return false
	}
	if _, ok := s.engine.GetSettings(i); !ok {
		return false
	}
	if s.trim.StopDrag() {
		s.commitTrim()
	}
	s.selected = i

	s.waveImg.Clear()
	s.renderer.Init(buf, s.waveImg, waveColor)
	s.renderer.DrawWave(0, float64(s.waveImg.Height()))

	s.waveGrid.Clear()
	s.renderer.Init(buf, s.waveGrid, waveColor)
	s.renderer.DrawWave(0, float64(s.waveGrid.Height()))

	s.rebindTrim()
	s.changed()
	return true
}

func (s *Session) rebindTrim() {
	settings, ok := s.engine.GetSettings(s.selected)
	if !ok {
		s.unbind()
		return
	}
	s.trim.Bind(settings.TrimStart, settings.TrimEnd)
	s.dirty = true
}

func (s *Session) unbind() {
	s.selected = -1
	s.trim.Unbind()
	s.waveImg.Clear()
	s.waveGrid.Clear()
	s.trimImg.Clear()
	s.trimGrid.Clear()
	s.dirty = true
}

// commitTrim writes the dragged positions back into the selected slot
func (s *Session) commitTrim() {
	if s.selected < 0 {
		return
	}
	start, end := s.trim.Positions()
	if s.engine.UpdateTrim(s.selected, start, end) {
		if s.config.Debug {
			log.Printf("[DEBUG] Trim %d committed: %.1f-%.1f", s.selected, start, end)
		}
		s.changed()
	}
}

func (s *Session) play(i int, source string) {
	if s.engine.PlaySound(i) == nil {
		return
	}
	s.lastPad = i
	s.lastPadAt = time.Now()
	s.dirty = true
	for _, o := range s.observers {
		o.PadPlayed(i, source)
	}
}

func (s *Session) refreshPresets() {
	s.setStatus("Loading presets...")
	s.async(func() func() {
		list, err := s.service.ListPresets(s.ctx)
		return func() {
			if err != nil {
				s.setStatus(fmt.Sprintf("Failed to load presets: %v", err))
				return
			}
			s.presetList = list
			s.presetKeys = presets.Keys(list)
			s.setStatus(fmt.Sprintf("%d presets", len(list)))
			if !s.loaded && !s.loading && len(s.presetKeys) > 0 {
				s.loadPreset(list[s.presetKeys[0]])
			}
		}
	})
}

func (s *Session) loadPreset(p presets.Preset) {
	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.setStatus(fmt.Sprintf("Loading %s...", p.Name))

	urls := presets.SampleURLs(s.service.BaseURL(), p)
	s.async(func() func() {
		buffers, err := s.engine.LoadPreset(s.ctx, urls, s.config.CanvasWidth)
		return func() {
			if gen != s.loadGen || errors.Is(err, sampler.ErrSuperseded) {
				return
			}
			s.loading = false
			if err != nil {
				s.setStatus(fmt.Sprintf("Failed to load %s: %v", p.Name, err))
				return
			}
			s.applyPreset(p, buffers)
		}
	})
}

func (s *Session) applyPreset(p presets.Preset, buffers []*audio.Sample) {
	s.current = p
	s.loaded = true
	s.unbind()

	loaded := 0
	for i, b := range buffers {
		if b == nil {
			continue
		}
		if loaded == 0 {
			s.selectSound(i)
		}
		loaded++
	}
	s.setStatus(fmt.Sprintf("Loaded %s: %d of %d sounds", p.Name, loaded, len(buffers)))
}

func (s *Session) deletePreset(key string) {
	p, ok := s.presetList[key]
	if !ok {
		s.setStatus(fmt.Sprintf("Unknown preset %q", key))
		return
	}
	s.setStatus(fmt.Sprintf("Deleting %s...", p.Name))
	s.async(func() func() {
		err := s.service.DeletePreset(s.ctx, p)
		return func() {
			if err != nil {
				s.setStatus(fmt.Sprintf("Failed to delete %s: %v", p.Name, err))
				return
			}
			log.Printf("Deleted preset %s", p.Name)
			if p.Key == s.current.Key {
				s.loaded = false
			}
			s.refreshPresets()
		}
	})
}

func (s *Session) exportPNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := canvas.WritePNG(f, canvas.Composite(canvasBackground, s.waveImg, s.trimImg)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Session) setStatus(msg string) {
	if msg != s.status {
		log.Printf("%s", msg)
	}
	s.status = msg
	s.changed()
}

// changed marks model state (not just the overlay) as modified
func (s *Session) changed() {
	s.version++
	s.dirty = true
}

// render redraws the overlay and publishes a frame when anything changed
func (s *Session) render() {
	if !s.dirty {
		return
	}
	s.dirty = false

	if s.trim.Bound() {
		s.trim.Clear(s.trimImg)
		s.trim.Draw(s.trimImg)
		s.trim.Clear(s.trimGrid)
		s.trim.Draw(s.trimGrid)
	}

	f := s.frame()
	if s.version != s.lastVersion {
		s.lastVersion = s.version
		s.stateMu.Lock()
		s.state = f.Protocol()
		s.stateMu.Unlock()
	}
	for _, o := range s.observers {
		o.SessionChanged(f)
	}
}
