// ABOUTME: WebSocket client for the sampler remote control protocol
// ABOUTME: Handles connection, handshake, commands and state updates
package protocol

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Path is the WebSocket endpoint served by the sampler
const Path = "/remote"

// Config holds client configuration
type Config struct {
	ServerAddr string
	ClientID   string
	Name       string
	DeviceInfo DeviceInfo
}

// Client represents a remote control connection
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex
	wmu    sync.Mutex

	// Message channels
	State            chan SessionState
	PadPlayed        chan PadPlayed
	RecordingStopped chan RecordingStopped
	Errors           chan ServerError

	hello     ServerHello
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new remote control client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config:           config,
		State:            make(chan SessionState, 10),
		PadPlayed:        make(chan PadPlayed, 32),
		RecordingStopped: make(chan RecordingStopped, 4),
		Errors:           make(chan ServerError, 10),
		ctx:              ctx,
		cancel:           cancel,
	}
}

// Connect establishes the WebSocket connection and performs the handshake
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return nil
}

func (c *Client) handshake() error {
	hello := ClientHello{
		ClientID:   c.config.ClientID,
		Name:       c.config.Name,
		Version:    Version,
		DeviceInfo: &c.config.DeviceInfo,
	}
	if err := c.send(TypeClientHello, hello); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	typ, payload, err := Decode(data)
	if err != nil {
		return err
	}
	if typ != TypeServerHello {
		return fmt.Errorf("expected server/hello, got %s", typ)
	}
	var sh ServerHello
	if err := payload(&sh); err != nil {
		return err
	}

	c.mu.Lock()
	c.hello = sh
	c.mu.Unlock()

	log.Printf("Handshake complete with %s (%s)", sh.Name, sh.ServerID)
	return nil
}

// ServerHello returns the server's handshake reply
func (c *Client) ServerHello() ServerHello {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hello
}

func (c *Client) send(typ string, payload interface{}) error {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected {
		return fmt.Errorf("not connected")
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	return conn.WriteJSON(Message{Type: typ, Payload: payload})
}

func (c *Client) readMessages() {
	defer c.Close()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
			default:
				log.Printf("Read error: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			log.Printf("Ignoring non-text message type: %d", messageType)
			continue
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	typ, payload, err := Decode(data)
	if err != nil {
		log.Printf("Failed to parse message: %v", err)
		return
	}

	switch typ {
	case TypeSessionState:
		var state SessionState
		if err := payload(&state); err != nil {
			log.Printf("Failed to parse session/state: %v", err)
			return
		}
		deliver(c.ctx, c.State, state)

	case TypePadPlayed:
		var played PadPlayed
		if err := payload(&played); err != nil {
			log.Printf("Failed to parse pad/played: %v", err)
			return
		}
		deliver(c.ctx, c.PadPlayed, played)

	case TypeRecordingStopped:
		var rec RecordingStopped
		if err := payload(&rec); err != nil {
			log.Printf("Failed to parse recording/stopped: %v", err)
			return
		}
		deliver(c.ctx, c.RecordingStopped, rec)

	case TypeServerError:
		var e ServerError
		if err := payload(&e); err != nil {
			log.Printf("Failed to parse server/error: %v", err)
			return
		}
		deliver(c.ctx, c.Errors, e)

	default:
		log.Printf("Unknown message type: %s", typ)
	}
}

// deliver drops the message if the consumer is more than 100ms behind
func deliver[T any](ctx context.Context, ch chan T, v T) {
	select {
	case ch <- v:
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		log.Printf("Channel full, dropping message")
	}
}

// TriggerPad plays a pad
func (c *Client) TriggerPad(index int) error {
	return c.send(TypePadTrigger, PadTrigger{Index: index})
}

// SendNote forwards a note-on
func (c *Client) SendNote(note, velocity uint8) error {
	return c.send(TypeMIDINote, MIDINote{Note: note, Velocity: velocity})
}

// SetTrim sets the trims of a pad in canvas pixels
func (c *Client) SetTrim(index int, start, end float64) error {
	return c.send(TypeTrimUpdate, TrimUpdate{Index: index, Start: start, End: end})
}

// SetSetting changes volume or pan of a pad
func (c *Client) SetSetting(index int, setting string, value float64) error {
	return c.send(TypeSettingUpdate, SettingUpdate{Index: index, Setting: setting, Value: value})
}

// SelectPreset switches the loaded preset
func (c *Client) SelectPreset(key string) error {
	return c.send(TypePresetSelect, PresetSelect{Key: key})
}

// StartRecording starts recording the sampler's output
func (c *Client) StartRecording() error {
	return c.send(TypeRecordStart, nil)
}

// StopRecording stops the current recording
func (c *Client) StopRecording() error {
	return c.send(TypeRecordStop, nil)
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.cancel()
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
