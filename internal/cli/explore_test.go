package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
)

func newTestExplore(t *testing.T) *exploreModel {
	t.Helper()
	dv := dataview.New("Region", []string{"North", "South"}, map[string][]float64{
		"2023": {10, -4},
		"2024": {12, 7},
	}, "2023", "2024")
	s := settings.Default()
	m := newExploreModel(dv, &s)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if len(m.frame.Layout.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(m.frame.Layout.Columns))
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreKeyboardSelection(t *testing.T) {
	m := newTestExplore(t)

	m.Update(key("down"))
	m.Update(key("enter"))
	if i, ok := m.visual.Selection().Index(); !ok || i != 1 {
		t.Fatalf("selection = %d, %v; want 1", i, ok)
	}
	for i, c := range m.frame.Layout.Columns {
		lit := i == 1 || i == 3
		if (c.Opacity == 1) != lit {
			t.Errorf("column %d opacity = %v", i, c.Opacity)
		}
	}

	m.Update(key("esc"))
	if _, ok := m.visual.Selection().Index(); ok {
		t.Error("esc should clear the selection")
	}
}

func TestExploreCursorWraps(t *testing.T) {
	m := newTestExplore(t)
	m.Update(key("up"))
	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}
	m.Update(key("j"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestExploreMouseClick(t *testing.T) {
	m := newTestExplore(t)
	l := m.frame.Layout
	row, c0, _ := barCells(l.Context, l.Columns[2])

	m.Update(tea.MouseMsg{X: c0, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if i, ok := m.visual.Selection().Index(); !ok || i != 2 {
		t.Fatalf("selection = %d, %v; want 2", i, ok)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	// The top-left cell belongs to the legend, not a bar.
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.visual.Selection().Index(); ok {
		t.Error("background click should clear the selection")
	}
}

func TestExploreResizeKeepsSelection(t *testing.T) {
	m := newTestExplore(t)
	m.Update(key("enter"))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	if i, ok := m.visual.Selection().Index(); !ok || i != 0 {
		t.Errorf("selection after resize = %d, %v; want 0", i, ok)
	}
	if w := m.frame.Layout.Context.Viewport.Width; w != 120*cellWidth {
		t.Errorf("viewport width = %v, want %v", w, 120*cellWidth)
	}
}

func TestExploreInitialSelection(t *testing.T) {
	dv := dataview.New("c", []string{"a", "b"}, map[string][]float64{"s": {1, 2}}, "s")
	m := newExploreModel(dv, nil)
	m.initial = selectedIndex(1)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 15})
	if i, ok := m.visual.Selection().Index(); !ok || i != 1 {
		t.Errorf("selection = %d, %v; want 1", i, ok)
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplore(t)
	view := stripANSI(m.View())
	for _, want := range []string{"North", "South", "2023", "nothing selected", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := len(strings.Split(view, "\n")); got != 20 {
		t.Errorf("view has %d lines, want 20", got)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestGridText(t *testing.T) {
	g := newGrid(6, 1)
	g.text(2, 0, "abcdef", StyleDim)
	g.text(0, 0, "界", StyleDim)
	if got := stripANSI(g.String()); got != "界abc…" {
		t.Errorf("grid = %q, want %q", got, "界abc…")
	}
}

// stripANSI drops escape sequences so tests compare plain cell text.
func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc:
			if r >= '@' && r <= '~' && r != '[' {
				esc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
