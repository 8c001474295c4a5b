// ABOUTME: Input events consumed by the sampler session loop
// ABOUTME: Pointer, pad, MIDI, preset and recording messages share one channel
package sampler

// Event is anything the session loop reacts to.
// Front-ends translate their native input into these values.
type Event interface {
	isEvent()
}

// PointerDown is a button press on the trim canvas
type PointerDown struct{ X, Y float64 }

// PointerMove is pointer motion over the trim canvas
type PointerMove struct{ X, Y float64 }

// PointerUp is a button release on the trim canvas
type PointerUp struct{ X, Y float64 }

// PointerLeave is the pointer exiting the trim canvas
type PointerLeave struct{}

// NoteOn is a MIDI note-on from any input
type NoteOn struct {
	Note     uint8
	Velocity uint8
}

// PadPressed selects and plays a pad
type PadPressed struct{ Index int }

// SelectSample selects a pad without playing it
type SelectSample struct{ Index int }

// TrimChanged sets the trims of a slot directly, in canvas pixels
type TrimChanged struct {
	Index      int
	Start, End float64
}

// SettingChanged adjusts volume or pan of a slot
type SettingChanged struct {
	Index   int
	Setting Setting
	Value   float64
}

// PresetSelected switches to the preset with the given key
type PresetSelected struct{ Key string }

// PresetsRefresh reloads the preset list from the server
type PresetsRefresh struct{}

// PresetDeleteRequested deletes the preset with the given key from the server
type PresetDeleteRequested struct{ Key string }

// RecordStart begins recording the master mix
type RecordStart struct{}

// RecordStop ends the current recording
type RecordStop struct{}

// RecordingStopped carries the finished recording back into the loop
type RecordingStopped struct {
	Artifact RecordingArtifact
	Err      error
}

// ExportCanvas writes the selected sample's waveform and trim overlay as a PNG
type ExportCanvas struct{ Path string }

func (PointerDown) isEvent()           {}
func (PointerMove) isEvent()           {}
func (PointerUp) isEvent()             {}
func (PointerLeave) isEvent()          {}
func (NoteOn) isEvent()                {}
func (PadPressed) isEvent()            {}
func (SelectSample) isEvent()          {}
func (TrimChanged) isEvent()           {}
func (SettingChanged) isEvent()        {}
func (PresetSelected) isEvent()        {}
func (PresetsRefresh) isEvent()        {}
func (PresetDeleteRequested) isEvent() {}
func (RecordStart) isEvent()           {}
func (RecordStop) isEvent()            {}
func (RecordingStopped) isEvent()      {}
func (ExportCanvas) isEvent()          {}
