// ABOUTME: MIDI note to pad mapping
// ABOUTME: Note-on messages from note 36 upward select pads 0 to 15
package sampler

const (
	// NoteOnStatus is the note-on status byte for MIDI channel 1
	NoteOnStatus = 0x90

	// BaseNote is the MIDI note mapped to pad 0
	BaseNote = 36

	// PadCount is the number of addressable pads
	PadCount = 16
)

// PadForMIDI maps a raw MIDI message to a pad index.
// Only note-on on channel 1 with non-zero velocity is accepted.
func PadForMIDI(data []byte) (int, bool) {
	if len(data) < 3 || data[0] != NoteOnStatus {
		return 0, false
	}
	return PadForNote(data[1], data[2])
}

// PadForNote maps a note-on key and velocity to a pad index
func PadForNote(note, velocity uint8) (int, bool) {
	if velocity == 0 {
		return 0, false
	}
	pad := int(note) - BaseNote
	if pad < 0 || pad >= PadCount {
		return 0, false
	}
	return pad, true
}
