// ABOUTME: Bubbletea model for the sampler TUI
// ABOUTME: Renders pads, the waveform canvas and presets, and turns input into session events
package ui

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/app"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// canvasTop is the screen row of the first canvas row
	canvasTop = 2

	padColumns = 4
	padWidth   = 16
	flashTime  = 150 * time.Millisecond

	volumeStep = 0.05
	panStep    = 0.1
)

// padKeys maps keyboard keys to pads, four rows of four
const padKeys = "1234qwerasdfzxcv"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	recStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	padStyle      = lipgloss.NewStyle().Width(padWidth).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	padEmptyStyle = padStyle.Foreground(lipgloss.Color("240"))
	padSelStyle   = padStyle.Background(lipgloss.Color("24"))
	padFlashStyle = padStyle.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214"))

	canvasBG = lipgloss.Color("#181818")
)

// Model represents the TUI state
type Model struct {
	post      func(sampler.Event) bool
	exportDir string

	frame     app.Frame
	haveFrame bool

	// Canvas geometry
	gridWidth   int
	gridHeight  int
	canvasWidth int
	inCanvas    bool
	dragging    bool

	pendingDelete string
	notice        string

	width  int
	height int
}

// frameMsg carries a published session frame
type frameMsg app.Frame

// flashMsg redraws while a pad flash fades
type flashMsg time.Time

// NewModel creates a model posting events through post
func NewModel(config app.Config, post func(sampler.Event) bool, exportDir string) Model {
	return Model{
		post:        post,
		exportDir:   exportDir,
		gridWidth:   config.GridWidth,
		gridHeight:  config.GridHeight,
		canvasWidth: config.CanvasWidth,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return flashTick()
}

func flashTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return flashMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = app.Frame(msg)
		m.haveFrame = true
	case flashMsg:
		return m, flashTick()
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if !m.haveFrame {
		return "Loading..."
	}

	lines := []string{m.renderTitle(), m.renderStatus()}
	lines = append(lines, m.renderCanvas()...)
	lines = append(lines, m.renderSlotInfo(), "")
	lines = append(lines, m.renderPads()...)
	lines = append(lines, "")
	lines = append(lines, m.renderPresets()...)
	lines = append(lines, "", m.renderHelp())
	return strings.Join(lines, "\n")
}

func (m Model) renderTitle() string {
	name := "no preset"
	if m.frame.Preset.Key != "" {
		name = m.frame.Preset.DisplayName()
	}
	title := titleStyle.Render("Pad Sampler · " + name)
	if m.frame.Loading {
		title += statusStyle.Render("  loading…")
	}
	if m.frame.Recording {
		title += recStyle.Render("  ● REC")
	}
	return title
}

func (m Model) renderStatus() string {
	msg := m.frame.Status
	if m.notice != "" {
		msg = m.notice
	}
	return statusStyle.Render(truncate(msg, m.gridWidth+padWidth))
}

// renderCanvas draws the waveform grid one row per line, merging runs of
// cells with the same colors into one styled span
func (m Model) renderCanvas() []string {
	lines := make([]string, m.gridHeight)
	grid := m.frame.Canvas
	if grid == nil {
		empty := lipgloss.NewStyle().Background(canvasBG).Render(strings.Repeat(" ", m.gridWidth))
		for i := range lines {
			lines[i] = empty
		}
		return lines
	}

	for y := 0; y < grid.Height() && y < len(lines); y++ {
		var b strings.Builder
		var run strings.Builder
		var runStyle lipgloss.Style
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		var prev canvas.Cell
		for x := 0; x < grid.Width(); x++ {
			cell := grid.Cell(x, y)
			if x == 0 || !sameColors(cell, prev) {
				flush()
				runStyle = cellStyle(cell)
			}
			prev = cell
			if cell.Glyph == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(cell.Glyph)
			}
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func cellStyle(c canvas.Cell) lipgloss.Style {
	s := lipgloss.NewStyle().Background(canvasBG)
	if fg, ok := hexColor(c.FG); ok {
		s = s.Foreground(fg)
	}
	if bg, ok := hexColor(c.BG); ok {
		s = s.Background(bg)
	}
	return s
}

func sameColors(a, b canvas.Cell) bool {
	fa, _ := hexColor(a.FG)
	fb, _ := hexColor(b.FG)
	ba, _ := hexColor(a.BG)
	bb, _ := hexColor(b.BG)
	return fa == fb && ba == bb
}

func hexColor(c color.Color) (lipgloss.Color, bool) {
	if c == nil {
		return "", false
	}
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)), true
}

func (m Model) renderSlotInfo() string {
	slot, ok := m.selectedSlot()
	if !ok {
		return statusStyle.Render("no sample selected")
	}
	st := slot.Settings
	return statusStyle.Render(fmt.Sprintf("%s  %.2fs  trim %.0f-%.0f/%d  vol %.2f  pan %+.1f",
		truncate(slot.Name, 24), slot.Duration, st.TrimStart, st.TrimEnd, st.CanvasWidth, st.Volume, st.Pan))
}

func (m Model) renderPads() []string {
	rows := make([]string, sampler.PadCount/padColumns)
	for r := range rows {
		cells := make([]string, padColumns)
		for c := 0; c < padColumns; c++ {
			cells[c] = m.renderPad(r*padColumns + c)
		}
		rows[r] = strings.Join(cells, " ")
	}
	return rows
}

func (m Model) renderPad(i int) string {
	key := string(padKeys[i])
	if i >= len(m.frame.Slots) {
		return padEmptyStyle.Render(fmt.Sprintf(" %s ·", key))
	}
	slot := m.frame.Slots[i]
	label := fmt.Sprintf(" %s %s", key, truncate(slot.Label, padWidth-4))

	switch {
	case !slot.Loaded:
		return padEmptyStyle.Render(fmt.Sprintf(" %s ✗ %s", key, truncate(slot.Label, padWidth-6)))
	case i == m.frame.LastPad && time.Since(m.frame.LastPadAt) < flashTime:
		return padFlashStyle.Render(label)
	case i == m.frame.Selected:
		return padSelStyle.Render(label)
	}
	return padStyle.Render(label)
}

// renderPresets lists presets grouped under their type
func (m Model) renderPresets() []string {
	if len(m.frame.Presets) == 0 {
		return []string{helpStyle.Render("no presets")}
	}
	var lines []string
	group := "\x00"
	for _, p := range m.frame.Presets {
		if p.Type != group {
			group = p.Type
			name := group
			if name == "" {
				name = "other"
			}
			lines = append(lines, headerStyle.Render(name))
		}
		if p.Key == m.frame.Preset.Key {
			lines = append(lines, currentStyle.Render("  ▸ "+p.DisplayName()))
		} else {
			lines = append(lines, "    "+p.DisplayName())
		}
	}
	return lines
}

func (m Model) renderHelp() string {
	return helpStyle.Render("pads:" + padKeys + "  ←/→:select  ↑/↓:volume  [/]:pan  pgup/pgdn:preset  " +
		"ctrl+r:record  ctrl+e:png  ctrl+l:refresh  ctrl+d:delete  esc:quit")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "ctrl+d" {
		m.pendingDelete = ""
	}
	m.notice = ""

	switch key {
	case "esc", "ctrl+c":
		return m, tea.Quit
	case "left":
		m.selectRelative(-1)
	case "right":
		m.selectRelative(1)
	case "up":
		m.adjust(sampler.SettingVolume, volumeStep)
	case "down":
		m.adjust(sampler.SettingVolume, -volumeStep)
	case "[":
		m.adjust(sampler.SettingPan, -panStep)
	case "]":
		m.adjust(sampler.SettingPan, panStep)
	case "pgup":
		m.presetRelative(-1)
	case "pgdown":
		m.presetRelative(1)
	case "ctrl+l":
		m.send(sampler.PresetsRefresh{})
	case "ctrl+r":
		if m.frame.Recording {
			m.send(sampler.RecordStop{})
		} else {
			m.send(sampler.RecordStart{})
		}
	case "ctrl+e":
		m.exportCanvas()
	case "ctrl+d":
		m.confirmDelete()
	default:
		if len(msg.Runes) == 1 {
			if i := strings.IndexRune(padKeys, msg.Runes[0]); i >= 0 {
				m.send(sampler.PadPressed{Index: i})
			}
		}
	}
	return m, nil
}

// handleMouse maps terminal cells onto the canvas pixel domain and the pad grid
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, inside := m.canvasX(msg.X, msg.Y)
	if !inside {
		if m.inCanvas {
			m.inCanvas = false
			m.dragging = false
			m.send(sampler.PointerLeave{})
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if pad, ok := m.padAt(msg.X, msg.Y); ok {
				m.send(sampler.PadPressed{Index: pad})
			}
		}
		return
	}

	m.inCanvas = true
	y := float64(msg.Y - canvasTop)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.dragging = true
		m.send(sampler.PointerDown{X: x, Y: y})
	case tea.MouseActionRelease:
		m.dragging = false
		m.send(sampler.PointerUp{X: x, Y: y})
	case tea.MouseActionMotion:
		m.send(sampler.PointerMove{X: x, Y: y})
	}
}

// canvasX converts a cell column to the pixel at the cell's centre
func (m Model) canvasX(col, row int) (float64, bool) {
	if m.gridWidth <= 0 || col < 0 || col >= m.gridWidth || row < canvasTop || row >= canvasTop+m.gridHeight {
		return 0, false
	}
	return (float64(col) + 0.5) * float64(m.canvasWidth) / float64(m.gridWidth), true
}

func (m Model) padAt(col, row int) (int, bool) {
	top := canvasTop + m.gridHeight + 2
	r := row - top
	c := col / (padWidth + 1)
	if r < 0 || r >= sampler.PadCount/padColumns || c >= padColumns || col%(padWidth+1) == padWidth {
		return 0, false
	}
	return r*padColumns + c, true
}

func (m *Model) selectRelative(delta int) {
	n := len(m.frame.Slots)
	if n == 0 {
		return
	}
	i := m.frame.Selected
	for step := 0; step < n; step++ {
		i = ((i+delta)%n + n) % n
		if m.frame.Slots[i].Loaded {
			m.send(sampler.SelectSample{Index: i})
			return
		}
	}
}

func (m *Model) adjust(setting sampler.Setting, delta float64) {
	slot, ok := m.selectedSlot()
	if !ok {
		return
	}
	value := slot.Settings.Volume
	if setting == sampler.SettingPan {
		value = slot.Settings.Pan
	}
	m.send(sampler.SettingChanged{Index: slot.Index, Setting: setting, Value: value + delta})
}

func (m *Model) presetRelative(delta int) {
	n := len(m.frame.Presets)
	if n == 0 {
		return
	}
	current := -1
	for i, p := range m.frame.Presets {
		if p.Key == m.frame.Preset.Key {
			current = i
			break
		}
	}
	next := ((current+delta)%n + n) % n
	if current < 0 && delta < 0 {
		next = n - 1
	}
	m.send(sampler.PresetSelected{Key: m.frame.Presets[next].Key})
}

func (m *Model) exportCanvas() {
	slot, ok := m.selectedSlot()
	if !ok {
		m.notice = "Nothing to export"
		return
	}
	name := fmt.Sprintf("%s-%02d-%s.png", m.frame.Preset.Key, slot.Index, time.Now().Format("20060102-150405"))
	m.send(sampler.ExportCanvas{Path: filepath.Join(m.exportDir, name)})
}

func (m *Model) confirmDelete() {
	key := m.frame.Preset.Key
	if key == "" {
		return
	}
	if m.pendingDelete == key {
		m.pendingDelete = ""
		m.send(sampler.PresetDeleteRequested{Key: key})
		return
	}
	m.pendingDelete = key
	m.notice = fmt.Sprintf("Press ctrl+d again to delete %s", m.frame.Preset.DisplayName())
}

func (m Model) selectedSlot() (app.SlotView, bool) {
	i := m.frame.Selected
	if i < 0 || i >= len(m.frame.Slots) || !m.frame.Slots[i].Loaded {
		return app.SlotView{}, false
	}
	return m.frame.Slots[i], true
}

func (m *Model) send(ev sampler.Event) {
	if m.post == nil {
		return
	}
	if !m.post(ev) {
		m.notice = "Sampler busy, input dropped"
	}
}

func truncate(s string, length int) string {
	if length <= 3 || len([]rune(s)) <= length {
		return s
	}
	r := []rune(s)
	return string(r[:length-3]) + "..."
}
