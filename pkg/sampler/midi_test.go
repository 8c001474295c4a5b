// ABOUTME: Tests for MIDI note to pad mapping
// ABOUTME: Covers range boundaries, zero velocity and other status bytes
package sampler

import "testing"

func TestPadForMIDI(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantPad int
		wantOK  bool
	}{
		{"lowest pad", []byte{144, 36, 100}, 0, true},
		{"highest pad", []byte{144, 51, 100}, 15, true},
		{"above range", []byte{144, 52, 100}, 0, false},
		{"below range", []byte{144, 35, 100}, 0, false},
		{"zero velocity", []byte{144, 40, 0}, 0, false},
		{"note off", []byte{128, 40, 100}, 0, false},
		{"other channel", []byte{145, 40, 100}, 0, false},
		{"short message", []byte{144, 40}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, ok := PadForMIDI(tt.data)
			if ok != tt.wantOK || pad != tt.wantPad {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.wantPad, tt.wantOK, pad, ok)
			}
		})
	}
}
