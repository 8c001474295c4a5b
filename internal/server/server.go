// ABOUTME: HTTP preset service
// ABOUTME: Lists, serves, uploads and deletes presets and advertises itself over mDNS
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/discovery"
	"github.com/google/uuid"
)

// maxUploadSize bounds a multipart preset upload
const maxUploadSize = 256 << 20

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	Root       string // preset directory
	EnableMDNS bool
	Debug      bool
	UseTUI     bool
}

// Server is the preset service
type Server struct {
	config   Config
	serverID string
	store    *Store

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// mDNS discovery
	mdnsManager *discovery.Manager

	// TUI
	tui       *ServerTUI
	startTime time.Time
	statsMu   sync.Mutex
	requests  []RequestInfo

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new server instance
func New(config Config) (*Server, error) {
	if config.Port == 0 {
		config.Port = 3000
	}
	if config.Name == "" {
		config.Name = "PadSampler Presets"
	}
	if config.Root == "" {
		config.Root = "presets"
	}

	store, err := NewStore(config.Root)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    config,
		serverID:  uuid.New().String(),
		store:     store,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/presets", s.handleList)
	s.mux.HandleFunc("POST /api/presets", s.handleUpload)
	s.mux.HandleFunc("GET /api/presets/{name}", s.handleGet)
	s.mux.HandleFunc("DELETE /api/presets/{name}", s.handleDelete)
	s.mux.HandleFunc("GET /presets/{key}/{file}", s.handleFile)
}

// Handler returns the HTTP handler with request logging
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		s.mux.ServeHTTP(rec, r)
		s.logRequest(r, rec.status, time.Since(start))
	})
}

// Start serves until Stop is called, the TUI quits or the listener fails
func (s *Server) Start() error {
	if s.config.UseTUI {
		s.tui = NewServerTUI()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tui.Start(s.status())
		}()
	}

	log.Printf("Preset server starting: %s (ID: %s, root: %s)", s.config.Name, s.serverID, s.store.Root())

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			ServerID:    s.serverID,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Preset server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	if s.tui != nil {
		s.tui.Stop()
	}
	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []UploadedFile
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "bad upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "bad upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, UploadedFile{Name: fh.Filename, Data: data})
	}

	p, err := s.store.Create(r.FormValue("name"), r.FormValue("type"), files)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.FilePath(r.PathValue("key"), r.PathValue("file"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.ServeFile(w, r, p)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrExists):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalid):
		status = http.StatusBadRequest
	default:
		log.Printf("Request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// statusRecorder captures the response status for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequest(r *http.Request, status int, took time.Duration) {
	if s.config.Debug {
		log.Printf("[DEBUG] %s %s -> %d (%v)", r.Method, r.URL.Path, status, took)
	}

	s.statsMu.Lock()
	s.requests = append(s.requests, RequestInfo{
		Method: r.Method,
		Path:   r.URL.Path,
		Status: status,
		At:     time.Now(),
	})
	if len(s.requests) > maxRecentRequests {
		s.requests = s.requests[len(s.requests)-maxRecentRequests:]
	}
	s.statsMu.Unlock()

	if s.tui != nil {
		s.tui.Update(s.status())
	}
}

// status builds a snapshot for the TUI
func (s *Server) status() ServerStatus {
	count := 0
	if list, err := s.store.List(); err == nil {
		count = len(list)
	}

	s.statsMu.Lock()
	recent := append([]RequestInfo(nil), s.requests...)
	s.statsMu.Unlock()

	return ServerStatus{
		Name:      s.config.Name,
		Port:      s.config.Port,
		Root:      s.store.Root(),
		StartTime: s.startTime,
		Presets:   count,
		Requests:  recent,
	}
}
