// ABOUTME: Remote control message type definitions
// ABOUTME: JSON envelopes exchanged over the sampler's WebSocket
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the remote protocol version
const Version = 1

// Message types
const (
	TypeClientHello      = "client/hello"
	TypeServerHello      = "server/hello"
	TypePadTrigger       = "pad/trigger"
	TypeMIDINote         = "midi/note"
	TypeTrimUpdate       = "trim/update"
	TypeSettingUpdate    = "setting/update"
	TypePresetSelect     = "preset/select"
	TypeRecordStart      = "record/start"
	TypeRecordStop       = "record/stop"
	TypeSessionState     = "session/state"
	TypePadPlayed        = "pad/played"
	TypeRecordingStopped = "recording/stopped"
	TypeServerError      = "server/error"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// rawMessage is used to decode the envelope before the payload type is known
type rawMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode splits a JSON message into its type and a payload decoder
func Decode(data []byte) (string, func(v interface{}) error, error) {
	var raw rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if raw.Type == "" {
		return "", nil, fmt.Errorf("message has no type")
	}
	payload := func(v interface{}) error {
		if len(raw.Payload) == 0 || string(raw.Payload) == "null" {
			return fmt.Errorf("%s: missing payload", raw.Type)
		}
		if err := json.Unmarshal(raw.Payload, v); err != nil {
			return fmt.Errorf("%s: invalid payload: %w", raw.Type, err)
		}
		return nil
	}
	return raw.Type, payload, nil
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID   string      `json:"client_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
	PadCount int    `json:"pad_count"`
}

// PadTrigger selects and plays a pad
type PadTrigger struct {
	Index int `json:"index"`
}

// MIDINote forwards a note-on from a remote keyboard
type MIDINote struct {
	Note     uint8 `json:"note"`
	Velocity uint8 `json:"velocity"`
}

// TrimUpdate sets the trims of a pad in canvas pixels
type TrimUpdate struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SettingUpdate changes the volume or pan of a pad
type SettingUpdate struct {
	Index   int     `json:"index"`
	Setting string  `json:"setting"`
	Value   float64 `json:"value"`
}

// PresetSelect switches the loaded preset
type PresetSelect struct {
	Key string `json:"key"`
}

// SessionState is broadcast whenever the sampler state changes
type SessionState struct {
	Preset      string          `json:"preset"`
	Presets     []PresetSummary `json:"presets"`
	Selected    int             `json:"selected"`
	Recording   bool            `json:"recording"`
	CanvasWidth int             `json:"canvas_width"`
	Slots       []SlotState     `json:"slots"`
}

// PresetSummary names one preset on the server
type PresetSummary struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// SlotState describes one pad
type SlotState struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Loaded    bool    `json:"loaded"`
	Duration  float64 `json:"duration"`
	TrimStart float64 `json:"trim_start"`
	TrimEnd   float64 `json:"trim_end"`
	Volume    float64 `json:"volume"`
	Pan       float64 `json:"pan"`
}

// PadPlayed reports that a pad was triggered
type PadPlayed struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
}

// RecordingStopped announces a finished recording
type RecordingStopped struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	MimeType   string `json:"mime_type"`
	DurationMs int64  `json:"duration_ms"`
}

// ServerError reports a rejected command
type ServerError struct {
	Message string `json:"message"`
}
