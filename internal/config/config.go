// ABOUTME: Runtime configuration loaded from environment variables
// ABOUTME: Supplies flag defaults for the sampler and the preset server
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Sampler
	Server       string // preset server base URL; empty means discover over mDNS
	CanvasWidth  int    // trim pixel domain
	CanvasHeight int    // waveform raster height for PNG export
	SampleRate   int
	Channels     int
	Output       string // "oto" or "null"
	CacheDir     string
	RecordDir    string
	RecordFormat string // "wav" or "ogg"
	MIDIPort     string // empty disables MIDI input
	RemotePort   int    // 0 disables the WebSocket remote
	MaxLoads     int
	LogFile      string
	Debug        bool

	// Preset server
	PresetPort int
	PresetRoot string
	PresetName string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Server:       envStr("PADSAMPLER_SERVER", ""),
		CanvasWidth:  envInt("PADSAMPLER_CANVAS_WIDTH", 600),
		CanvasHeight: envInt("PADSAMPLER_CANVAS_HEIGHT", 100),
		SampleRate:   envInt("PADSAMPLER_SAMPLE_RATE", 44100),
		Channels:     envInt("PADSAMPLER_CHANNELS", 2),
		Output:       envStr("PADSAMPLER_OUTPUT", "oto"),
		CacheDir:     envStr("PADSAMPLER_CACHE_DIR", ""),
		RecordDir:    envStr("PADSAMPLER_RECORD_DIR", "recordings"),
		RecordFormat: envStr("PADSAMPLER_RECORD_FORMAT", "wav"),
		MIDIPort:     envStr("PADSAMPLER_MIDI_PORT", ""),
		RemotePort:   envInt("PADSAMPLER_REMOTE_PORT", 8928),
		MaxLoads:     envInt("PADSAMPLER_MAX_LOADS", 4),
		LogFile:      envStr("PADSAMPLER_LOG_FILE", "padsampler.log"),
		Debug:        envBool("PADSAMPLER_DEBUG", false),

		PresetPort: envInt("PRESET_SERVER_PORT", 3000),
		PresetRoot: envStr("PRESET_SERVER_ROOT", "presets"),
		PresetName: envStr("PRESET_SERVER_NAME", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
