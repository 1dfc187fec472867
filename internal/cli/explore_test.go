package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stackfold/pkg/config"
	"github.com/matzehuels/stackfold/pkg/graph"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m exploreModel, keys ...string) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(exploreModel)
	}
	return m
}

func rowIDs(rows []treeRow) string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = strings.Repeat(".", r.Depth) + r.ID
	}
	return strings.Join(ids, " ")
}

func TestExploreModel(t *testing.T) {
	isolate(t)
	c := New(&strings.Builder{}, LogInfo)
	input := writeJSON(t, nestedJSON)
	s, err := c.openSession(context.Background(), input, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	out := filepath.Join(t.TempDir(), "explored.json")
	m := newExploreModel(context.Background(), s, out)
	if got, want := rowIDs(m.rows), "out root .mid ..leaf1 ..leaf2 .side"; got != want {
		t.Fatalf("rows = %q, want %q", got, want)
	}

	// Move to mid and collapse it.
	m = press(t, m, "j", "j", "enter")
	if !s.IsCollapsed("mid") {
		t.Fatal("mid not collapsed after enter")
	}
	if got, want := rowIDs(m.rows), "out root .mid .side"; got != want {
		t.Errorf("rows = %q, want %q", got, want)
	}
	if m.rows[m.cursor].ID != "mid" {
		t.Errorf("cursor on %s, want mid", m.rows[m.cursor].ID)
	}
	if r := m.rows[2]; !r.Collapsed || r.Hides != 2 {
		t.Errorf("mid row = %+v, want collapsed hiding 2", r)
	}
	if !strings.Contains(m.View(), "(+2)") {
		t.Errorf("View() missing hidden count:\n%s", m.View())
	}

	// Leaves cannot be toggled.
	m = press(t, m, "k", "k", "enter")
	if m.rows[m.cursor].ID != "out" || s.IsCollapsed("out") {
		t.Errorf("cursor = %s, want out unchanged", m.rows[m.cursor].ID)
	}

	m = press(t, m, "c")
	if got, want := rowIDs(m.rows), "out root"; got != want {
		t.Errorf("rows after collapse all = %q, want %q", got, want)
	}
	m = press(t, m, "e", "w")
	if !m.written {
		t.Fatalf("status = %q, want written", m.status)
	}
	gj, err := graph.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := graph.Collapsed(gj); len(got) != 0 {
		t.Errorf("written graph collapsed = %v, want none", got)
	}

	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q returned no command")
	}
	_ = next
}

func TestExploreLayoutMsg(t *testing.T) {
	m := exploreModel{busy: true}
	next, _ := m.Update(layoutDoneMsg{})
	if got := next.(exploreModel); got.busy || got.status != "Layout done" {
		t.Errorf("after layoutDoneMsg: busy=%v status=%q", got.busy, got.status)
	}
}
