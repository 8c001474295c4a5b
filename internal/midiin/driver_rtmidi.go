//go:build rtmidi

// ABOUTME: Registers the native RtMidi driver
// ABOUTME: Built only with -tags rtmidi since it needs cgo and system MIDI headers
package midiin

import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
