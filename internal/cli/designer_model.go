package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/stretching"
	"github.com/oceanmesh/vgrid/pkg/suggest"
	"github.com/oceanmesh/vgrid/pkg/vqs"
)

// designerFocus selects which pane receives keystrokes.
type designerFocus int

const (
	focusTable designerFocus = iota
	focusSuggest
)

// editField identifies the anchor column under the cursor.
type editField int

const (
	fieldDepth editField = iota
	fieldLevels
)

// editState is the two-stage input used when adding or editing an anchor.
type editState int

const (
	editNone  editState = iota
	editValue           // editing the focused field of the selected anchor
	editAddDepth
	editAddLevels
)

// statusLevel colors the status line.
type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusError
)

// designerModel is the bubbletea model for the master grid designer.
type designerModel struct {
	mesh   *mesh.Mesh
	output string

	table  *mastergrid.Table
	cursor int
	field  editField

	focus designerFocus
	edit  editState
	input string
	// pendingDepth carries the depth between the two add stages.
	pendingDepth float64

	variant     stretching.Variant
	params      stretching.Params
	dzBottomMin float64

	algorithm     suggest.Algorithm
	suggestParams suggest.Params

	status      string
	statusLevel statusLevel
	exported    bool
	width       int
	height      int
}

func newDesignerModel(m *mesh.Mesh, output string, dzBottomMin float64) (designerModel, error) {
	dm := designerModel{
		mesh:          m,
		output:        output,
		dzBottomMin:   dzBottomMin,
		table:         defaultTable(),
		variant:       stretching.Quadratic,
		params:        stretching.DefaultParams(),
		algorithm:     suggest.Exponential,
		suggestParams: suggest.DefaultParams(),
		status:        "a add  e edit  d delete  f function  s suggest  x export  q quit",
	}
	if m != nil {
		// Seed from the mesh so the table brackets the actual depth range.
		if t, err := suggest.Suggest(m.Depths(), suggest.Exponential, dm.suggestParams); err == nil {
			dm.table = t
		}
	}
	return dm, nil
}

func (m designerModel) Init() tea.Cmd { return nil }

func (m designerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.edit != editNone {
			return m.updateInput(msg), nil
		}
		switch m.focus {
		case focusSuggest:
			return m.updateSuggest(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

// updateTable handles keys while the anchor table has focus.
func (m designerModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.table.Len()-1 {
			m.cursor++
		}
	case "left", "h":
		m.field = fieldDepth
	case "right", "l":
		m.field = fieldLevels
	case "a":
		m.edit = editAddDepth
		m.input = ""
		m.setStatus(statusInfo, "new anchor depth (m): ")
	case "e", "enter":
		m.edit = editValue
		m.input = ""
		a := m.table.Anchors()[m.cursor]
		if m.field == fieldDepth {
			m.setStatus(statusInfo, fmt.Sprintf("new depth for anchor %d (was %g): ", m.cursor+1, a.Depth))
		} else {
			m.setStatus(statusInfo, fmt.Sprintf("new level count for anchor %d (was %d): ", m.cursor+1, a.Levels))
		}
	case "d":
		m = m.deleteAnchor()
	case "f":
		m.variant = nextVariant(m.variant)
		m.setStatus(statusInfo, "stretching: "+m.variant.String())
	case "s":
		if m.mesh == nil {
			m.setStatus(statusError, "no mesh loaded; suggestions unavailable")
			break
		}
		m.focus = focusSuggest
		m.setStatus(statusInfo, "1/2/3 algorithm  t/T target  n/N anchors  m/M shallow  z/Z dz  enter apply  esc back")
	case "x":
		m = m.export()
	}
	return m, nil
}

// updateSuggest handles keys while the suggestion pane has focus.
func (m designerModel) updateSuggest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.suggestParams
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "tab":
		m.focus = focusTable
		m.setStatus(statusInfo, "back to table")
	case "1":
		m.algorithm = suggest.Exponential
	case "2":
		m.algorithm = suggest.Uniform
	case "3":
		m.algorithm = suggest.Percentile
	case "t":
		if p.TargetLevels > p.ShallowLevels {
			p.TargetLevels--
		}
	case "T":
		p.TargetLevels++
	case "n":
		if p.AnchorCount > 1 {
			p.AnchorCount--
		}
	case "N":
		if p.AnchorCount < 12 {
			p.AnchorCount++
		}
	case "m":
		if p.ShallowLevels > 2 {
			p.ShallowLevels--
		}
	case "M":
		if p.ShallowLevels < p.TargetLevels {
			p.ShallowLevels++
		}
	case "z":
		if p.SurfaceDz > 0.1 {
			p.SurfaceDz -= 0.1
		}
	case "Z":
		p.SurfaceDz += 0.1
	case "enter":
		t, err := suggest.Suggest(m.mesh.Depths(), m.algorithm, m.suggestParams)
		if err != nil {
			m.setStatus(statusError, errors.UserMessage(err))
			break
		}
		m.table = t
		m.cursor = 0
		m.focus = focusTable
		m.setStatus(statusOK, fmt.Sprintf("applied %s suggestion (%d anchors)", m.algorithm, t.Len()))
	}
	return m, nil
}

// updateInput handles the numeric prompt during edits and adds.
func (m designerModel) updateInput(msg tea.KeyMsg) designerModel {
	switch msg.String() {
	case "esc":
		m.edit = editNone
		m.setStatus(statusInfo, "edit cancelled")
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "enter":
		m = m.commitInput()
	default:
		if r := msg.String(); len(r) == 1 && (r[0] == '.' || (r[0] >= '0' && r[0] <= '9')) {
			m.input += r
		}
	}
	return m
}

// commitInput applies the typed value for the current edit stage. Every
// mutation goes through the table's own validation, so a rejected edit
// keeps the prior table and only updates the status line.
func (m designerModel) commitInput() designerModel {
	v, err := strconv.ParseFloat(m.input, 64)
	if err != nil {
		m.setStatus(statusError, fmt.Sprintf("not a number: %q", m.input))
		m.edit = editNone
		return m
	}
	switch m.edit {
	case editAddDepth:
		m.pendingDepth = v
		m.edit = editAddLevels
		m.input = ""
		m.setStatus(statusInfo, fmt.Sprintf("levels at %g m: ", m.pendingDepth))
		return m
	case editAddLevels:
		anchor := mastergrid.Anchor{Depth: m.pendingDepth, Levels: int(v)}
		if err := m.table.InsertOrUpdate(anchor); err != nil {
			m.setStatus(statusError, errors.UserMessage(err))
		} else {
			m.setStatus(statusOK, fmt.Sprintf("anchor %g m -> %d levels", anchor.Depth, anchor.Levels))
		}
	case editValue:
		a := m.table.Anchors()[m.cursor]
		updated := a
		if m.field == fieldDepth {
			updated.Depth = v
		} else {
			updated.Levels = int(v)
		}
		if updated != a {
			if m.field == fieldDepth {
				// Replace: remove the old row, insert the new one, and
				// restore on rejection.
				m.table.Remove(a.Depth)
				if err := m.table.InsertOrUpdate(updated); err != nil {
					m.table.InsertOrUpdate(a)
					m.setStatus(statusError, errors.UserMessage(err))
					break
				}
			} else if err := m.table.InsertOrUpdate(updated); err != nil {
				m.setStatus(statusError, errors.UserMessage(err))
				break
			}
			m.setStatus(statusOK, fmt.Sprintf("anchor %g m -> %d levels", updated.Depth, updated.Levels))
		}
	}
	m.edit = editNone
	m.input = ""
	if m.cursor >= m.table.Len() {
		m.cursor = m.table.Len() - 1
	}
	return m
}

func (m designerModel) deleteAnchor() designerModel {
	if m.table.Len() <= 1 {
		m.setStatus(statusError, "cannot delete the last anchor")
		return m
	}
	a := m.table.Anchors()[m.cursor]
	m.table.Remove(a.Depth)
	if m.cursor >= m.table.Len() {
		m.cursor = m.table.Len() - 1
	}
	m.setStatus(statusOK, fmt.Sprintf("removed anchor at %g m", a.Depth))
	return m
}

// export builds the full vertical grid for the loaded mesh and writes it.
func (m designerModel) export() designerModel {
	if m.mesh == nil {
		m.setStatus(statusError, "no mesh loaded; nothing to export")
		return m
	}
	opts := vqs.Options{Variant: m.variant, Params: m.params, DzBottomMin: m.dzBottomMin}
	grid, err := vqs.Build(m.mesh, m.table, opts)
	if err != nil {
		m.setStatus(statusError, errors.UserMessage(err))
		return m
	}
	if err := grid.WriteFile(m.output); err != nil {
		m.setStatus(statusError, errors.UserMessage(err))
		return m
	}
	m.exported = true
	m.setStatus(statusOK, fmt.Sprintf("wrote %s (nvrt=%d)", m.output, grid.NVrt()))
	return m
}

func (m *designerModel) setStatus(level statusLevel, msg string) {
	m.statusLevel = level
	m.status = msg
}

func nextVariant(v stretching.Variant) stretching.Variant {
	for i, cand := range stretching.Variants {
		if cand == v {
			return stretching.Variants[(i+1)%len(stretching.Variants)]
		}
	}
	return stretching.Variants[0]
}
