// ABOUTME: Tests for preset descriptors
// ABOUTME: Covers sample URL resolution, display names and ordering
package presets

import (
	"reflect"
	"testing"
)

func TestSampleURLs(t *testing.T) {
	p := Preset{
		Name: "808",
		Key:  "808",
		Samples: []SampleRef{
			{URL: "./808/kick.wav"},
			{URL: "808/snare.wav"},
			{URL: "hat%20open.mp3"},
		},
	}

	got := SampleURLs("http://localhost:3000/", p)
	want := []string{
		"http://localhost:3000/presets/808/kick.wav",
		"http://localhost:3000/presets/808/snare.wav",
		"http://localhost:3000/presets/808/hat%20open.mp3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SampleURLs = %v, want %v", got, want)
	}
}

func TestSampleNames(t *testing.T) {
	tests := []struct {
		ref     SampleRef
		display string
		label   string
	}{
		{SampleRef{URL: "./808/kick.wav"}, "kick.wav", "kick"},
		{SampleRef{URL: "./808/kick.wav", Name: "Kick"}, "Kick", "kick"},
		{SampleRef{URL: "bass.MP3"}, "bass.MP3", "bass"},
		{SampleRef{URL: "pad.flac"}, "pad.flac", "pad.flac"},
	}

	for _, tt := range tests {
		t.Run(tt.ref.URL, func(t *testing.T) {
			if got := tt.ref.DisplayName(); got != tt.display {
				t.Errorf("DisplayName = %q, want %q", got, tt.display)
			}
			if got := tt.ref.PadLabel(); got != tt.label {
				t.Errorf("PadLabel = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestKeysOrdering(t *testing.T) {
	list := map[string]Preset{
		"c": {Name: "Zap", Key: "c", Type: "fx"},
		"a": {Name: "808", Key: "a", Type: "drums"},
		"b": {Name: "909", Key: "b", Type: "drums"},
	}

	got := Keys(list)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestPresetDisplayName(t *testing.T) {
	if got := (Preset{Name: "Kit", Key: "kit"}).DisplayName(); got != "Kit" {
		t.Errorf("expected name, got %q", got)
	}
	if got := (Preset{Key: "kit"}).DisplayName(); got != "kit" {
		t.Errorf("expected key fallback, got %q", got)
	}
}
