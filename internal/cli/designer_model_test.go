package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/vqs"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m designerModel, keys ...string) designerModel {
	t.Helper()
	var model tea.Model = m
	for _, k := range keys {
		model, _ = model.Update(key(k))
	}
	return model.(designerModel)
}

func designerForTest(t *testing.T) designerModel {
	t.Helper()
	m, err := newDesignerModel(nil, "vgrid.in", 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestDesignerAddAnchor(t *testing.T) {
	m := designerForTest(t)
	before := m.table.Len()

	m = press(t, m, "a", "1", "0", "0", "0", "enter", "4", "0", "enter")

	if m.table.Len() != before+1 {
		t.Fatalf("table has %d anchors, want %d", m.table.Len(), before+1)
	}
	last := m.table.Anchors()[m.table.Len()-1]
	if last.Depth != 1000 || last.Levels != 40 {
		t.Errorf("new anchor = %+v, want {1000 40}", last)
	}
	if m.statusLevel != statusOK {
		t.Errorf("status = %q (level %d), want success", m.status, m.statusLevel)
	}
}

func TestDesignerRejectedEditKeepsTable(t *testing.T) {
	m := designerForTest(t)
	before := m.table.Anchors()

	// A deep anchor with fewer levels than the shallow anchors violates
	// monotonicity and must be rejected without mutating the table.
	m = press(t, m, "a", "9", "0", "0", "0", "enter", "2", "enter")

	after := m.table.Anchors()
	if len(after) != len(before) {
		t.Fatalf("rejected add changed the table: %d anchors, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("anchor %d changed: %+v != %+v", i, after[i], before[i])
		}
	}
	if m.statusLevel != statusError {
		t.Errorf("status level = %d, want error", m.statusLevel)
	}
}

func TestDesignerEditCancel(t *testing.T) {
	m := designerForTest(t)
	before := m.table.Anchors()

	m = press(t, m, "e", "5", "esc")

	if m.edit != editNone {
		t.Errorf("edit state = %d, want none", m.edit)
	}
	after := m.table.Anchors()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("cancelled edit changed anchor %d", i)
		}
	}
}

func TestDesignerDeleteKeepsLastAnchor(t *testing.T) {
	m := designerForTest(t)

	for i := 0; i < 5; i++ {
		m = press(t, m, "d")
	}
	if m.table.Len() != 1 {
		t.Errorf("table has %d anchors, want the last one kept", m.table.Len())
	}
	if m.statusLevel != statusError {
		t.Errorf("deleting the last anchor should report an error, got %q", m.status)
	}
}

func TestDesignerCycleStretching(t *testing.T) {
	m := designerForTest(t)
	start := m.variant

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		m = press(t, m, "f")
		seen[m.variant.String()] = true
	}
	if len(seen) != 5 {
		t.Errorf("cycled through %d variants, want 5", len(seen))
	}
	if m.variant != start {
		t.Errorf("five cycles should return to %v, got %v", start, m.variant)
	}
}

func TestDesignerSuggestRequiresMesh(t *testing.T) {
	m := designerForTest(t)
	m = press(t, m, "s")
	if m.focus != focusTable {
		t.Errorf("focus = %d, want table focus without a mesh", m.focus)
	}
	if m.statusLevel != statusError {
		t.Errorf("status = %q, want error about missing mesh", m.status)
	}
}

func TestDesignerSuggestApply(t *testing.T) {
	nodes := make([]mesh.Node, 50)
	for i := range nodes {
		nodes[i] = mesh.Node{ID: i + 1, Depth: float64(i+1) * 20}
	}
	m, err := newDesignerModel(mesh.New("test", nodes), "vgrid.in", 0)
	if err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "s")
	if m.focus != focusSuggest {
		t.Fatalf("focus = %d, want suggestion pane", m.focus)
	}
	m = press(t, m, "3", "N", "enter")

	if m.focus != focusTable {
		t.Errorf("focus = %d, want back at table after apply", m.focus)
	}
	if m.statusLevel != statusOK {
		t.Fatalf("apply failed: %q", m.status)
	}
	if got := m.table.Len(); got != 5 {
		t.Errorf("applied table has %d anchors, want 5", got)
	}
	if err := m.table.Validate(); err != nil {
		t.Errorf("applied table invalid: %v", err)
	}
}

func TestDesignerExportAppliesBottomTruncation(t *testing.T) {
	nodes := []mesh.Node{{ID: 1, Depth: 100}}
	out := filepath.Join(t.TempDir(), "vgrid.in")
	m, err := newDesignerModel(mesh.New("test", nodes), out, 30)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := mastergrid.New([]mastergrid.Anchor{
		{Depth: 50, Levels: 10},
		{Depth: 200, Levels: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	m.table = tbl

	if !strings.Contains(m.View(), "dz bottom min") {
		t.Errorf("preview does not show the bottom thickness floor:\n%s", m.View())
	}

	m = press(t, m, "x")
	if !m.exported {
		t.Fatalf("export failed: %q", m.status)
	}
	_, counts, err := vqs.ReadLevelCountsFile(out)
	if err != nil {
		t.Fatalf("ReadLevelCountsFile() error: %v", err)
	}
	// Interpolation gives the 100 m node 13 levels; a 30 m bottom floor
	// merges one of them away.
	if got := counts[0]; got != 12 {
		t.Errorf("exported level count = %d, want 12 after truncation", got)
	}
}

func TestDesignerViewRenders(t *testing.T) {
	m := designerForTest(t)
	out := m.View()
	if !strings.Contains(out, "Master Grid Designer") {
		t.Errorf("view missing title:\n%s", out)
	}
	if !strings.Contains(out, "table valid") {
		t.Errorf("view missing validity line:\n%s", out)
	}
}
