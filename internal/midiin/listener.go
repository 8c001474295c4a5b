// ABOUTME: MIDI input listener feeding note-ons into the sampler session
// ABOUTME: Opens a port by name through gomidi and filters channel 1 note-ons
package midiin

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Listener forwards MIDI note-ons to a post function
type Listener struct {
	post  func(sampler.Event) bool
	debug bool

	mu   sync.Mutex
	port drivers.In
	stop func()
}

// New creates a listener; post is usually Session.Post
func New(post func(sampler.Event) bool, debug bool) *Listener {
	return &Listener{post: post, debug: debug}
}

// InPorts lists the available input port names
func InPorts() []string {
	var names []string
	for _, in := range midi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

// Open starts listening on the first input port whose name contains name
func (l *Listener) Open(name string) error {
	in, err := midi.FindInPort(name)
	if err != nil {
		return fmt.Errorf("MIDI input %q not found (available: %s): %w", name, strings.Join(InPorts(), ", "), err)
	}
	return l.OpenPort(in)
}

// OpenPort starts listening on in, replacing any open port
func (l *Listener) OpenPort(in drivers.In) error {
	l.Close()

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		l.Handle(msg)
	}, midi.HandleError(func(err error) {
		log.Printf("MIDI listener error on %s: %v", in.String(), err)
	}))
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", in.String(), err)
	}

	l.mu.Lock()
	l.port = in
	l.stop = stop
	l.mu.Unlock()

	log.Printf("MIDI input connected: %s", in.String())
	return nil
}

// Port returns the open port name, or "" when closed
func (l *Listener) Port() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return ""
	}
	return l.port.String()
}

// Handle converts one message; only channel-1 note-ons on a pad note pass
func (l *Listener) Handle(msg midi.Message) bool {
	if _, ok := sampler.PadForMIDI([]byte(msg)); !ok {
		if l.debug {
			log.Printf("[DEBUG] Ignoring MIDI message: %s", msg.String())
		}
		return false
	}

	var ch, key, vel uint8
	if !msg.GetNoteStart(&ch, &key, &vel) {
		return false
	}
	if !l.post(sampler.NoteOn{Note: key, Velocity: vel}) {
		log.Printf("Dropped MIDI note %d: sampler busy", key)
		return false
	}
	return true
}

// Close stops listening and closes the port
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	if l.port != nil {
		if err := l.port.Close(); err != nil {
			log.Printf("Error closing MIDI port: %v", err)
		}
		log.Printf("MIDI input closed: %s", l.port.String())
		l.port = nil
	}
}
