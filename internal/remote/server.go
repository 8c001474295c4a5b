// ABOUTME: WebSocket remote control server for the sampler
// ABOUTME: Turns remote commands into session events and broadcasts state to clients
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/pkg/protocol"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is the part of the sampler session the remote needs
type Session interface {
	Post(ev sampler.Event) bool
	State() protocol.SessionState
}

// Config holds server configuration
type Config struct {
	Port  int
	Name  string
	Debug bool
}

// Server serves remote control clients
type Server struct {
	config   Config
	serverID string
	session  Session
	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux

	clients   map[string]*Client
	clientsMu sync.RWMutex

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is one connected remote
type Client struct {
	ID       string
	Name     string
	Conn     *websocket.Conn
	sendChan chan protocol.Message
}

// New creates a remote control server for session
func New(config Config, session Session) *Server {
	if config.Name == "" {
		config.Name = "PadSampler"
	}
	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		session:  session,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The remote is meant for trusted local networks
				if origin := r.Header.Get("Origin"); origin != "" {
					log.Printf("Accepting remote WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(protocol.Path, s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler serving the remote endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens until Stop is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.mux}

	log.Printf("Remote control listening on %s%s", addr, protocol.Path)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
	case err := <-errChan:
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Remote server shutdown error: %v", err)
	}
	s.closeClients()
	s.wg.Wait()

	if serverErr != nil {
		return fmt.Errorf("remote server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// ClientCount returns the number of connected remotes
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastState sends the session state to every client
func (s *Server) BroadcastState(state protocol.SessionState) {
	s.broadcast(protocol.TypeSessionState, state)
}

// BroadcastPadPlayed announces a triggered pad
func (s *Server) BroadcastPadPlayed(index int, source string) {
	s.broadcast(protocol.TypePadPlayed, protocol.PadPlayed{Index: index, Source: source})
}

// BroadcastRecording announces a finished recording
func (s *Server) BroadcastRecording(artifact sampler.RecordingArtifact) {
	s.broadcast(protocol.TypeRecordingStopped, protocol.RecordingStopped{
		ID:         artifact.ID,
		Path:       artifact.Path,
		MimeType:   artifact.MimeType,
		DurationMs: artifact.Duration.Milliseconds(),
	})
}

func (s *Server) broadcast(typ string, payload interface{}) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		if err := s.sendMessage(c, typ, payload); err != nil && s.config.Debug {
			log.Printf("[DEBUG] Dropping %s for %s: %v", typ, c.Name, err)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New remote connection from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	typ, payload, err := protocol.Decode(data)
	if err != nil {
		log.Printf("Error parsing hello: %v", err)
		return
	}
	if typ != protocol.TypeClientHello {
		log.Printf("Expected client/hello, got %s", typ)
		return
	}
	var hello protocol.ClientHello
	if err := payload(&hello); err != nil {
		log.Printf("Error parsing client hello: %v", err)
		return
	}
	if hello.ClientID == "" {
		hello.ClientID = uuid.New().String()
	}
	if hello.Name == "" {
		hello.Name = "remote-" + hello.ClientID[:8]
	}

	client := &Client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan protocol.Message, 100),
	}

	s.clientsMu.Lock()
	if _, exists := s.clients[client.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected, rejecting duplicate", client.ID)
		writeDirect(conn, protocol.TypeServerError, protocol.ServerError{Message: "client ID already connected"})
		return
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	log.Printf("Remote connected: %s (ID: %s)", client.Name, client.ID)

	defer func() {
		s.clientsMu.Lock()
		if s.clients[client.ID] == client {
			delete(s.clients, client.ID)
			close(client.sendChan)
		}
		s.clientsMu.Unlock()
		log.Printf("Remote disconnected: %s", client.Name)
	}()

	s.sendMessage(client, protocol.TypeServerHello, protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  protocol.Version,
		PadCount: sampler.PadCount,
	})
	s.sendMessage(client, protocol.TypeSessionState, s.session.State())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(client)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		s.handleClientMessage(client, data)
	}
}

// clientWriter sends queued messages and keepalive pings
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				continue
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage maps a remote command onto a session event
func (s *Server) handleClientMessage(client *Client, data []byte) {
	typ, payload, err := protocol.Decode(data)
	if err != nil {
		s.reject(client, err)
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] Remote %s sent %s", client.Name, typ)
	}

	ev, err := toEvent(typ, payload)
	if err != nil {
		s.reject(client, err)
		return
	}
	if !s.session.Post(ev) {
		s.reject(client, fmt.Errorf("sampler is busy, %s dropped", typ))
	}
}

// toEvent decodes one command
func toEvent(typ string, payload func(interface{}) error) (sampler.Event, error) {
	switch typ {
	case protocol.TypePadTrigger:
		var m protocol.PadTrigger
		if err := payload(&m); err != nil {
			return nil, err
		}
		return sampler.PadPressed{Index: m.Index}, nil

	case protocol.TypeMIDINote:
		var m protocol.MIDINote
		if err := payload(&m); err != nil {
			return nil, err
		}
		return sampler.NoteOn{Note: m.Note, Velocity: m.Velocity}, nil

	case protocol.TypeTrimUpdate:
		var m protocol.TrimUpdate
		if err := payload(&m); err != nil {
			return nil, err
		}
		return sampler.TrimChanged{Index: m.Index, Start: m.Start, End: m.End}, nil

	case protocol.TypeSettingUpdate:
		var m protocol.SettingUpdate
		if err := payload(&m); err != nil {
			return nil, err
		}
		setting, err := sampler.ParseSetting(m.Setting)
		if err != nil {
			return nil, err
		}
		return sampler.SettingChanged{Index: m.Index, Setting: setting, Value: m.Value}, nil

	case protocol.TypePresetSelect:
		var m protocol.PresetSelect
		if err := payload(&m); err != nil {
			return nil, err
		}
		return sampler.PresetSelected{Key: m.Key}, nil

	case protocol.TypeRecordStart:
		return sampler.RecordStart{}, nil

	case protocol.TypeRecordStop:
		return sampler.RecordStop{}, nil
	}
	return nil, fmt.Errorf("unknown message type: %s", typ)
}

func (s *Server) reject(client *Client, err error) {
	log.Printf("Rejected command from %s: %v", client.Name, err)
	s.sendMessage(client, protocol.TypeServerError, protocol.ServerError{Message: err.Error()})
}

// sendMessage queues a message without blocking
func (s *Server) sendMessage(client *Client, typ string, payload interface{}) error {
	select {
	case client.sendChan <- protocol.Message{Type: typ, Payload: payload}:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
}

// writeDirect writes before the client writer goroutine exists
func writeDirect(conn *websocket.Conn, typ string, payload interface{}) {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(protocol.Message{Type: typ, Payload: payload}); err != nil {
		log.Printf("Error writing %s: %v", typ, err)
	}
}
