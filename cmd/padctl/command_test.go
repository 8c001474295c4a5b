// ABOUTME: Tests for padctl argument parsing
// ABOUTME: Covers valid commands and rejected arguments
package main

import (
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(command) bool
	}{
		{"state", []string{"state"}, false, func(c command) bool { return !c.presetServer }},
		{"trigger", []string{"trigger", "15"}, false, func(c command) bool { return c.pad == 15 }},
		{"trigger out of range", []string{"trigger", "16"}, true, nil},
		{"note default velocity", []string{"note", "36"}, false, func(c command) bool { return c.note == 36 && c.velocity == 100 }},
		{"note velocity", []string{"note", "40", "0"}, false, func(c command) bool { return c.velocity == 0 }},
		{"note too high", []string{"note", "128"}, true, nil},
		{"trim", []string{"trim", "2", "10.5", "300"}, false, func(c command) bool { return c.pad == 2 && c.from == 10.5 && c.to == 300 }},
		{"trim missing end", []string{"trim", "2", "10"}, true, nil},
		{"set pan", []string{"set", "1", "pan", "-0.5"}, false, func(c command) bool { return c.setting == "pan" && c.value == -0.5 }},
		{"set unknown", []string{"set", "1", "pitch", "2"}, true, nil},
		{"record start", []string{"record", "start"}, false, func(c command) bool { return c.start }},
		{"record bad", []string{"record", "pause"}, true, nil},
		{"upload", []string{"upload", "Kit", "drums", "a.wav", "b.wav"}, false, func(c command) bool {
			return c.presetServer && c.key == "Kit" && c.kind == "drums" && len(c.files) == 2
		}},
		{"delete", []string{"delete", "Kit"}, false, func(c command) bool { return c.presetServer && c.key == "Kit" }},
		{"empty", nil, true, nil},
		{"unknown", []string{"explode"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseCommand(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", cmd)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil && !tt.check(cmd) {
				t.Errorf("unexpected command %+v", cmd)
			}
		})
	}
}
