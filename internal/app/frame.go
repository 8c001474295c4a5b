// ABOUTME: Immutable snapshots of the session handed to front-ends
// ABOUTME: Converts the session view into the remote protocol state
package app

import (
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
	"github.com/Resonate-Protocol/padsampler-go/pkg/protocol"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	"github.com/Resonate-Protocol/padsampler-go/pkg/trimbar"
)

// Frame is one published view of the session. It is never mutated after
// publication, so observers may keep it.
type Frame struct {
	Version     uint64
	Preset      presets.Preset
	Presets     []presets.Preset // sorted for display
	Slots       []SlotView
	Selected    int
	Loading     bool
	Recording   bool
	Status      string
	LastPad     int
	LastPadAt   time.Time
	Recorded    *sampler.RecordingArtifact
	CanvasWidth int
	Trim        TrimView
	Canvas      *canvas.Grid // waveform with trim overlay
}

// SlotView describes one pad
type SlotView struct {
	Index    int
	Label    string
	Name     string
	Loaded   bool
	Duration float64
	Settings sampler.Settings
}

// TrimView is the trim bar state of the selected slot
type TrimView struct {
	Bound    bool
	Left     float64
	Right    float64
	Hovered  trimbar.Handle
	Dragging bool
}

func (s *Session) frame() Frame {
	f := Frame{
		Version:     s.version,
		Preset:      s.current,
		Selected:    s.selected,
		Loading:     s.loading,
		Recording:   s.engine.Recording(),
		Status:      s.status,
		LastPad:     s.lastPad,
		LastPadAt:   s.lastPadAt,
		Recorded:    s.lastRecord,
		CanvasWidth: s.config.CanvasWidth,
		Canvas:      s.waveGrid.Overlay(s.trimGrid),
	}

	for _, key := range s.presetKeys {
		f.Presets = append(f.Presets, s.presetList[key])
	}

	n := s.engine.Len()
	f.Slots = make([]SlotView, n)
	for i := 0; i < n; i++ {
		view := SlotView{Index: i}
		if i < len(s.current.Samples) {
			view.Label = s.current.Samples[i].PadLabel()
			view.Name = s.current.Samples[i].DisplayName()
		}
		if buf := s.engine.GetBuffer(i); buf != nil {
			view.Loaded = true
			view.Duration = buf.Duration()
		}
		view.Settings, _ = s.engine.GetSettings(i)
		f.Slots[i] = view
	}

	if s.trim.Bound() {
		left, right := s.trim.Positions()
		f.Trim = TrimView{
			Bound:    true,
			Left:     left,
			Right:    right,
			Hovered:  s.trim.Hovered(),
			Dragging: s.trim.State() == trimbar.Dragging,
		}
	}
	return f
}

// Protocol converts the frame into the remote session state
func (f Frame) Protocol() protocol.SessionState {
	state := protocol.SessionState{
		Preset:      f.Preset.Key,
		Selected:    f.Selected,
		Recording:   f.Recording,
		CanvasWidth: f.CanvasWidth,
		Presets:     make([]protocol.PresetSummary, len(f.Presets)),
		Slots:       make([]protocol.SlotState, len(f.Slots)),
	}
	for i, p := range f.Presets {
		state.Presets[i] = protocol.PresetSummary{Key: p.Key, Name: p.Name, Type: p.Type}
	}
	for i, slot := range f.Slots {
		state.Slots[i] = protocol.SlotState{
			Index:     slot.Index,
			Name:      slot.Name,
			Loaded:    slot.Loaded,
			Duration:  slot.Duration,
			TrimStart: slot.Settings.TrimStart,
			TrimEnd:   slot.Settings.TrimEnd,
			Volume:    slot.Settings.Volume,
			Pan:       slot.Settings.Pan,
		}
	}
	return state
}
