// ABOUTME: Tests for TUI model input mapping and rendering
// ABOUTME: Checks keys, mouse-to-canvas mapping and frame display
package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/app"
	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
	tea "github.com/charmbracelet/bubbletea"
)

type eventLog struct {
	events []sampler.Event
	full   bool
}

func (l *eventLog) post(ev sampler.Event) bool {
	if l.full {
		return false
	}
	l.events = append(l.events, ev)
	return true
}

func (l *eventLog) last() sampler.Event {
	if len(l.events) == 0 {
		return nil
	}
	return l.events[len(l.events)-1]
}

func testConfig() app.Config {
	return app.Config{CanvasWidth: 600, CanvasHeight: 100, GridWidth: 60, GridHeight: 4}
}

func testFrame() app.Frame {
	kit := presets.Preset{Name: "Kit", Key: "kit", Type: "drums"}
	return app.Frame{
		Preset:  kit,
		Presets: []presets.Preset{kit, {Name: "Toms", Key: "toms", Type: "drums"}, {Name: "Zap", Key: "zap", Type: "fx"}},
		Slots: []app.SlotView{
			{Index: 0, Label: "kick", Name: "kick.wav", Loaded: true, Settings: sampler.Settings{TrimEnd: 600, Volume: 0.5, CanvasWidth: 600}},
			{Index: 1, Label: "missing", Name: "missing.wav"},
			{Index: 2, Label: "hat", Name: "Hi Hat", Loaded: true, Settings: sampler.Settings{TrimEnd: 600, Volume: 1, Pan: 0.2, CanvasWidth: 600}},
		},
		Selected:    0,
		LastPad:     -1,
		Status:      "Loaded Kit: 2 of 3 sounds",
		CanvasWidth: 600,
		Canvas:      canvas.NewGrid(60, 4, '│'),
	}
}

func newTestModel(l *eventLog) Model {
	m := NewModel(testConfig(), l.post, "/tmp/exports")
	updated, _ := m.Update(frameMsg(testFrame()))
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeFrame(t *testing.T) {
	m := NewModel(testConfig(), nil, "")
	if got := m.View(); got != "Loading..." {
		t.Errorf("expected loading view, got %q", got)
	}
}

func TestPadKeys(t *testing.T) {
	tests := []struct {
		key string
		pad int
	}{
		{"1", 0},
		{"4", 3},
		{"q", 4},
		{"f", 11},
		{"v", 15},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			l := &eventLog{}
			m := newTestModel(l)
			m.Update(runes(tt.key))
			if got, ok := l.last().(sampler.PadPressed); !ok || got.Index != tt.pad {
				t.Errorf("expected PadPressed{%d}, got %#v", tt.pad, l.last())
			}
		})
	}
}

func TestControlKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want sampler.Event
	}{
		{"volume up", tea.KeyMsg{Type: tea.KeyUp}, sampler.SettingChanged{Index: 0, Setting: sampler.SettingVolume, Value: 0.55}},
		{"volume down", tea.KeyMsg{Type: tea.KeyDown}, sampler.SettingChanged{Index: 0, Setting: sampler.SettingVolume, Value: 0.45}},
		{"pan right", runes("]"), sampler.SettingChanged{Index: 0, Setting: sampler.SettingPan, Value: 0.1}},
		{"next sample skips failed slot", tea.KeyMsg{Type: tea.KeyRight}, sampler.SelectSample{Index: 2}},
		{"previous sample wraps", tea.KeyMsg{Type: tea.KeyLeft}, sampler.SelectSample{Index: 2}},
		{"next preset", tea.KeyMsg{Type: tea.KeyPgDown}, sampler.PresetSelected{Key: "toms"}},
		{"previous preset wraps", tea.KeyMsg{Type: tea.KeyPgUp}, sampler.PresetSelected{Key: "zap"}},
		{"refresh", tea.KeyMsg{Type: tea.KeyCtrlL}, sampler.PresetsRefresh{}},
		{"record", tea.KeyMsg{Type: tea.KeyCtrlR}, sampler.RecordStart{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &eventLog{}
			m := newTestModel(l)
			m.Update(tt.key)
			got := l.last()
			if sc, ok := got.(sampler.SettingChanged); ok {
				want := tt.want.(sampler.SettingChanged)
				if sc.Index != want.Index || sc.Setting != want.Setting || abs(sc.Value-want.Value) > 1e-9 {
					t.Errorf("expected %#v, got %#v", want, sc)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRecordToggleStops(t *testing.T) {
	l := &eventLog{}
	m := newTestModel(l)
	f := testFrame()
	f.Recording = true
	updated, _ := m.Update(frameMsg(f))

	updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if _, ok := l.last().(sampler.RecordStop); !ok {
		t.Errorf("expected RecordStop, got %#v", l.last())
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	l := &eventLog{}
	m := newTestModel(l)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if len(l.events) != 0 {
		t.Fatalf("expected no event on first press, got %#v", l.events)
	}
	if !strings.Contains(updated.(Model).View(), "again to delete Kit") {
		t.Error("expected confirmation prompt")
	}

	updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if got, ok := l.last().(sampler.PresetDeleteRequested); !ok || got.Key != "kit" {
		t.Errorf("expected delete of kit, got %#v", l.last())
	}

	// Any other key cancels the prompt
	l.events = nil
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	for _, ev := range l.events {
		if _, ok := ev.(sampler.PresetDeleteRequested); ok {
			t.Error("expected cancelled confirmation")
		}
	}
}

func TestExportCanvasPath(t *testing.T) {
	l := &eventLog{}
	m := newTestModel(l)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})

	ev, ok := l.last().(sampler.ExportCanvas)
	if !ok {
		t.Fatalf("expected ExportCanvas, got %#v", l.last())
	}
	if !strings.HasPrefix(ev.Path, "/tmp/exports/kit-00-") || !strings.HasSuffix(ev.Path, ".png") {
		t.Errorf("unexpected export path %q", ev.Path)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newTestModel(&eventLog{})
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected quit command for %s", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected QuitMsg for %s", key)
		}
	}
}

func TestMouseMapsToCanvasPixels(t *testing.T) {
	l := &eventLog{}
	m := newTestModel(l)

	press := tea.MouseMsg{X: 0, Y: canvasTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	updated, _ := m.Update(press)
	if got, ok := l.last().(sampler.PointerDown); !ok || got.X != 5 || got.Y != 0 {
		t.Errorf("expected PointerDown at x=5, got %#v", l.last())
	}

	motion := tea.MouseMsg{X: 30, Y: canvasTop + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	updated, _ = updated.(Model).Update(motion)
	if got, ok := l.last().(sampler.PointerMove); !ok || got.X != 305 {
		t.Errorf("expected PointerMove at x=305, got %#v", l.last())
	}

	release := tea.MouseMsg{X: 59, Y: canvasTop, Action: tea.MouseActionRelease}
	updated, _ = updated.(Model).Update(release)
	if got, ok := l.last().(sampler.PointerUp); !ok || got.X != 595 {
		t.Errorf("expected PointerUp at x=595, got %#v", l.last())
	}

	// Leaving the canvas area sends a single PointerLeave
	outside := tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion}
	updated, _ = updated.(Model).Update(outside)
	updated.(Model).Update(outside)
	leaves := 0
	for _, ev := range l.events {
		if _, ok := ev.(sampler.PointerLeave); ok {
			leaves++
		}
	}
	if leaves != 1 {
		t.Errorf("expected one PointerLeave, got %d", leaves)
	}
}

func TestMouseClickOnPad(t *testing.T) {
	l := &eventLog{}
	m := newTestModel(l)
	padTop := canvasTop + testConfig().GridHeight + 2

	m.Update(tea.MouseMsg{X: padWidth + 3, Y: padTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, ok := l.last().(sampler.PadPressed); !ok || got.Index != 5 {
		t.Errorf("expected pad 5, got %#v", l.last())
	}

	l.events = nil
	m.Update(tea.MouseMsg{X: padWidth, Y: padTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(l.events) != 0 {
		t.Errorf("expected no event on the gap between pads, got %#v", l.events)
	}
}

func TestBusySessionShowsNotice(t *testing.T) {
	l := &eventLog{full: true}
	m := newTestModel(l)
	updated, _ := m.Update(runes("1"))
	if !strings.Contains(updated.(Model).View(), "input dropped") {
		t.Error("expected dropped input notice")
	}
}

func TestViewShowsPresetsAndPads(t *testing.T) {
	m := newTestModel(&eventLog{})
	view := m.View()

	for _, want := range []string{"Pad Sampler · Kit", "Loaded Kit: 2 of 3 sounds", "drums", "fx", "▸ Kit", "Toms", "kick", "hat", "✗ missing", "vol 0.50"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	lines := strings.Split(view, "\n")
	padTop := canvasTop + testConfig().GridHeight + 2
	if !strings.Contains(lines[padTop], "kick") {
		t.Errorf("expected first pad row at line %d, got %q", padTop, lines[padTop])
	}
}

func TestViewShowsRecording(t *testing.T) {
	m := newTestModel(&eventLog{})
	f := testFrame()
	f.Recording = true
	f.LastPad = 0
	f.LastPadAt = time.Now()
	updated, _ := m.Update(frameMsg(f))
	if !strings.Contains(updated.(Model).View(), "REC") {
		t.Error("expected recording indicator")
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abc", 3, "abc"},
		{"abcde", 4, "a..."},
		{"ünïcödé name", 8, "ünïcö..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}
