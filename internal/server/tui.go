// ABOUTME: Server TUI for displaying preset counts and recent requests
// ABOUTME: Real-time preset server status display using bubbletea
package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxRecentRequests is how many requests the TUI keeps
const maxRecentRequests = 12

// ServerTUI manages the server TUI
type ServerTUI struct {
	program  *tea.Program
	updates  chan ServerStatus
	quitChan chan struct{}
	ready    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// ServerStatus holds server state for TUI
type ServerStatus struct {
	Name      string
	Port      int
	Root      string
	StartTime time.Time
	Presets   int
	Requests  []RequestInfo
}

// RequestInfo describes one handled request
type RequestInfo struct {
	Method string
	Path   string
	Status int
	At     time.Time
}

type tuiModel struct {
	status   ServerStatus
	quitting bool
	quitChan chan struct{}
}

type tickMsg time.Time
type statusMsg ServerStatus

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	listStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m tuiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
			return m, tea.Quit
		}

	case tickMsg:
		return m, tickEvery()

	case statusMsg:
		m.status = ServerStatus(msg)
		return m, nil
	}

	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down preset server...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Preset Server"))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(headerStyle.Render(name + ": "))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	field("Server", m.status.Name)
	field("Port", fmt.Sprintf("%d", m.status.Port))
	field("Root", m.status.Root)
	if !m.status.StartTime.IsZero() {
		field("Uptime", time.Since(m.status.StartTime).Round(time.Second).String())
	}
	field("Presets", fmt.Sprintf("%d", m.status.Presets))
	b.WriteString("\n")

	b.WriteString(listStyle.Render(fmt.Sprintf("Recent Requests (%d)", len(m.status.Requests))))
	b.WriteString("\n\n")

	if len(m.status.Requests) == 0 {
		b.WriteString(valueStyle.Render("  No requests yet"))
		b.WriteString("\n")
	}
	for i := len(m.status.Requests) - 1; i >= 0; i-- {
		req := m.status.Requests[i]
		code := okStyle.Render(fmt.Sprintf("%d", req.Status))
		if req.Status >= 400 {
			code = failStyle.Render(fmt.Sprintf("%d", req.Status))
		}
		b.WriteString(fmt.Sprintf("  %s %s %s", req.At.Format("15:04:05"), code, req.Method))
		b.WriteString(valueStyle.Render(" " + req.Path))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press 'q' or Ctrl+C to quit"))

	return b.String()
}

// NewServerTUI creates a new server TUI
func NewServerTUI() *ServerTUI {
	return &ServerTUI{
		updates:  make(chan ServerStatus, 10),
		quitChan: make(chan struct{}, 1),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the TUI until it quits
func (t *ServerTUI) Start(initial ServerStatus) error {
	m := tuiModel{
		status:   initial,
		quitChan: t.quitChan,
	}

	t.program = tea.NewProgram(m, tea.WithAltScreen())
	close(t.ready)

	go func() {
		for {
			select {
			case status := <-t.updates:
				t.program.Send(statusMsg(status))
			case <-t.done:
				return
			}
		}
	}()

	_, err := t.program.Run()
	return err
}

// Update sends a status update to the TUI
func (t *ServerTUI) Update(status ServerStatus) {
	select {
	case <-t.done:
	case t.updates <- status:
	default:
	}
}

// Stop stops the TUI
func (t *ServerTUI) Stop() {
	t.stopOnce.Do(func() {
		<-t.ready
		t.program.Quit()
		close(t.done)
	})
}

// QuitChan returns the channel that signals when user wants to quit
func (t *ServerTUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
