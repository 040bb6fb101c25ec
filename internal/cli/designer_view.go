package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/oceanmesh/vgrid/pkg/vqs"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")
	colorYellow = lipgloss.Color("220")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNormal   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn     = lipgloss.NewStyle().Foreground(colorYellow)
	stylePane     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

func (m designerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Master Grid Designer"))
	b.WriteString("  ")
	b.WriteString(styleDim.Render("stretching: " + m.variant.String()))
	b.WriteString("\n\n")

	panes := []string{m.viewTable()}
	if m.focus == focusSuggest {
		panes = append(panes, m.viewSuggest())
	}
	panes = append(panes, m.viewPreview())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")

	switch m.statusLevel {
	case statusOK:
		b.WriteString(styleOK.Render(m.status))
	case statusError:
		b.WriteString(styleError.Render(m.status))
	default:
		b.WriteString(styleDim.Render(m.status))
	}
	if m.edit != editNone {
		b.WriteString(styleNormal.Render(m.input))
		b.WriteString(styleSelected.Render("▏"))
	}
	b.WriteString("\n")
	return b.String()
}

// viewTable renders the anchor table with the cursor row highlighted.
func (m designerModel) viewTable() string {
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleDim).
		Headers("", "DEPTH (M)", "LEVELS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleDim.Bold(true)
			}
			if row == m.cursor {
				if (col == 1 && m.field == fieldDepth) || (col == 2 && m.field == fieldLevels) {
					return styleSelected
				}
				return styleNormal
			}
			return styleDim
		})

	for i, a := range m.table.Anchors() {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		t.Row(cursor, fmt.Sprintf("%.2f", a.Depth), fmt.Sprintf("%d", a.Levels))
	}
	return stylePane.Render(t.Render())
}

// viewSuggest renders the suggestion pane.
func (m designerModel) viewSuggest() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Suggest"))
	b.WriteString("\n")
	for i, alg := range []string{"exponential", "uniform", "percentile"} {
		marker := "  "
		style := styleDim
		if int(m.algorithm) == i {
			marker = "▸ "
			style = styleSelected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d %s", marker, i+1, alg)))
		b.WriteString("\n")
	}
	p := m.suggestParams
	b.WriteString("\n")
	b.WriteString(styleNormal.Render(fmt.Sprintf("target levels  %d", p.TargetLevels)))
	b.WriteString("\n")
	b.WriteString(styleNormal.Render(fmt.Sprintf("shallow levels %d", p.ShallowLevels)))
	b.WriteString("\n")
	b.WriteString(styleNormal.Render(fmt.Sprintf("anchors        %d", p.AnchorCount)))
	b.WriteString("\n")
	b.WriteString(styleNormal.Render(fmt.Sprintf("surface dz     %.1f", p.SurfaceDz)))
	return stylePane.Render(b.String())
}

// viewPreview summarizes the column the selected anchor implies: level
// count and top/bottom layer thickness under the current stretching.
func (m designerModel) viewPreview() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Preview"))
	b.WriteString("\n")

	if m.mesh != nil {
		if stats, err := m.mesh.Stats(); err == nil {
			b.WriteString(styleDim.Render(fmt.Sprintf("mesh: %d wet nodes, %.1f to %.1f m", stats.Wet, stats.Min, stats.Max)))
			b.WriteString("\n")
		}
	}
	if m.dzBottomMin > 0 {
		b.WriteString(styleDim.Render(fmt.Sprintf("dz bottom min: %.2f m", m.dzBottomMin)))
		b.WriteString("\n")
	}

	anchors := m.table.Anchors()
	if m.cursor < len(anchors) {
		a := anchors[m.cursor]
		opts := vqs.Options{Variant: m.variant, Params: m.params, DzBottomMin: m.dzBottomMin}
		col, err := vqs.Assign(a.Depth, m.table, opts)
		if err != nil {
			b.WriteString(styleError.Render(err.Error()))
			return stylePane.Render(b.String())
		}
		top := col.Z[len(col.Z)-1] - col.Z[len(col.Z)-2]
		bottom := col.Z[1] - col.Z[0]
		b.WriteString(styleNormal.Render(fmt.Sprintf("anchor %d: %.2f m, %d levels", m.cursor+1, a.Depth, col.Used)))
		b.WriteString("\n")
		b.WriteString(styleNormal.Render(fmt.Sprintf("surface layer %.2f m", top)))
		b.WriteString("\n")
		b.WriteString(styleNormal.Render(fmt.Sprintf("bottom layer  %.2f m", bottom)))
		b.WriteString("\n")
		if col.Truncated {
			b.WriteString(styleWarn.Render(fmt.Sprintf("truncated %d→%d", col.Requested, col.Used)))
			b.WriteString("\n")
		}
	}

	if err := m.table.Validate(); err != nil {
		b.WriteString(styleError.Render("table invalid: " + err.Error()))
	} else {
		b.WriteString(styleOK.Render("table valid ✓"))
	}
	return stylePane.Render(b.String())
}
