// ABOUTME: Per-sample playback settings registry
// ABOUTME: Holds trims in canvas pixels plus volume and pan for every slot
package sampler

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
)

// Setting names an adjustable slot parameter
type Setting string

const (
	SettingVolume Setting = "volume"
	SettingPan    Setting = "pan"
)

// ParseSetting validates a setting name
func ParseSetting(name string) (Setting, error) {
	switch Setting(name) {
	case SettingVolume, SettingPan:
		return Setting(name), nil
	}
	return "", fmt.Errorf("unknown setting %q", name)
}

// Settings are the playback parameters of one sample.
// 0 <= TrimStart <= TrimEnd <= CanvasWidth always holds.
type Settings struct {
	TrimStart   float64 `json:"trimStart"`
	TrimEnd     float64 `json:"trimEnd"`
	Volume      float64 `json:"volume"`
	Pan         float64 `json:"pan"`
	CanvasWidth int     `json:"canvasWidth"`
}

// DefaultSettings returns full-length trims at unity gain, centred
func DefaultSettings(canvasWidth int) Settings {
	return Settings{
		TrimStart:   0,
		TrimEnd:     float64(canvasWidth),
		Volume:      1,
		Pan:         0,
		CanvasWidth: canvasWidth,
	}
}

// Slots is an index-addressed registry of Settings
type Slots struct {
	mu       sync.RWMutex
	settings []Settings
}

// NewSlots creates an empty registry
func NewSlots() *Slots {
	return &Slots{}
}

// Reset replaces every slot with n default slots
func (s *Slots) Reset(n, canvasWidth int) {
	settings := make([]Settings, n)
	for i := range settings {
		settings[i] = DefaultSettings(canvasWidth)
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Len returns the number of slots
func (s *Slots) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.settings)
}

// Get returns a copy of slot i
func (s *Slots) Get(i int) (Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.settings) {
		return Settings{}, false
	}
	return s.settings[i], true
}

// UpdateTrim stores new trims for slot i, clamped to the canvas and ordered
func (s *Slots) UpdateTrim(i int, start, end float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.settings) {
		return false
	}
	st := &s.settings[i]
	w := float64(st.CanvasWidth)
	start = canvas.Clamp(start, 0, w)
	end = canvas.Clamp(end, 0, w)
	if start > end {
		start, end = end, start
	}
	st.TrimStart = start
	st.TrimEnd = end
	return true
}

// UpdateSetting stores a clamped volume or pan value for slot i
func (s *Slots) UpdateSetting(i int, setting Setting, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.settings) {
		return false
	}
	switch setting {
	case SettingVolume:
		s.settings[i].Volume = canvas.Clamp(value, 0, 1)
	case SettingPan:
		s.settings[i].Pan = canvas.Clamp(value, -1, 1)
	default:
		return false
	}
	return true
}
