// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and feeds it session frames
package ui

import (
	"github.com/Resonate-Protocol/padsampler-go/internal/app"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the sampler interface and observes a session
type TUI struct {
	program *tea.Program
	frames  chan app.Frame
	done    chan struct{}
}

// New creates the TUI for session. PNG exports are written to exportDir.
func New(session *app.Session, exportDir string) *TUI {
	model := NewModel(session.Config(), session.Post, exportDir)
	t := &TUI{
		program: tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion()),
		frames:  make(chan app.Frame, 1),
		done:    make(chan struct{}),
	}
	session.AddObserver(t)
	return t
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	go t.pump()
	defer close(t.done)
	_, err := t.program.Run()
	return err
}

// Quit stops the program
func (t *TUI) Quit() {
	t.program.Quit()
}

// pump hands frames to the program off the session goroutine
func (t *TUI) pump() {
	for {
		select {
		case f := <-t.frames:
			t.program.Send(frameMsg(f))
		case <-t.done:
			return
		}
	}
}

// SessionChanged keeps only the newest pending frame
func (t *TUI) SessionChanged(f app.Frame) {
	for {
		select {
		case t.frames <- f:
			return
		default:
		}
		select {
		case <-t.frames:
		default:
		}
	}
}

// PadPlayed is shown through the frame's last pad
func (t *TUI) PadPlayed(index int, source string) {}

// RecordingStopped is shown through the frame's status
func (t *TUI) RecordingStopped(artifact sampler.RecordingArtifact) {}
