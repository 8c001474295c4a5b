// ABOUTME: Tests for environment configuration
// ABOUTME: Covers defaults, overrides and malformed values
package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PADSAMPLER_SERVER", "PADSAMPLER_CANVAS_WIDTH", "PADSAMPLER_OUTPUT",
		"PADSAMPLER_RECORD_FORMAT", "PADSAMPLER_REMOTE_PORT", "PADSAMPLER_DEBUG",
		"PRESET_SERVER_PORT", "PRESET_SERVER_ROOT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Server != "" {
		t.Errorf("Server = %q, want empty default", cfg.Server)
	}
	if cfg.CanvasWidth != 600 {
		t.Errorf("CanvasWidth = %d, want 600", cfg.CanvasWidth)
	}
	if cfg.Output != "oto" {
		t.Errorf("Output = %q, want oto", cfg.Output)
	}
	if cfg.RecordFormat != "wav" {
		t.Errorf("RecordFormat = %q, want wav", cfg.RecordFormat)
	}
	if cfg.RemotePort != 8928 {
		t.Errorf("RemotePort = %d, want 8928", cfg.RemotePort)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
	if cfg.PresetPort != 3000 || cfg.PresetRoot != "presets" {
		t.Errorf("preset server defaults = %d %q", cfg.PresetPort, cfg.PresetRoot)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PADSAMPLER_SERVER", "http://studio.local:3000")
	t.Setenv("PADSAMPLER_CANVAS_WIDTH", "800")
	t.Setenv("PADSAMPLER_RECORD_FORMAT", "ogg")
	t.Setenv("PADSAMPLER_DEBUG", "true")
	t.Setenv("PRESET_SERVER_PORT", "4000")

	cfg := Load()

	if cfg.Server != "http://studio.local:3000" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.CanvasWidth != 800 {
		t.Errorf("CanvasWidth = %d, want 800", cfg.CanvasWidth)
	}
	if cfg.RecordFormat != "ogg" {
		t.Errorf("RecordFormat = %q, want ogg", cfg.RecordFormat)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.PresetPort != 4000 {
		t.Errorf("PresetPort = %d, want 4000", cfg.PresetPort)
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Setenv("PADSAMPLER_CANVAS_WIDTH", "wide")
	t.Setenv("PADSAMPLER_DEBUG", "maybe")

	cfg := Load()

	if cfg.CanvasWidth != 600 {
		t.Errorf("CanvasWidth = %d, want fallback 600", cfg.CanvasWidth)
	}
	if cfg.Debug {
		t.Error("Debug should fall back to false")
	}
}
