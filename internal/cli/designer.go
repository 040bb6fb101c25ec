package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
)

func newDesignerCmd() *cobra.Command {
	var (
		hgrid       string
		output      string
		dzBottomMin float64
	)

	cmd := &cobra.Command{
		Use:   "designer",
		Short: "Interactive master grid designer",
		Long: `Opens a terminal UI for editing a master grid table: add, edit and
remove anchors with immediate validation, preview per-anchor layer spacing
under the selected stretching function, and derive anchor suggestions from
the mesh depth distribution. The finished table is exported as a vertical
grid file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var m *mesh.Mesh
			if hgrid != "" {
				var err error
				m, err = mesh.Open(hgrid)
				if err != nil {
					return err
				}
				logger.Infof("Loaded %s: %d nodes", hgrid, m.Len())
			} else {
				logger.Warn("No mesh loaded; suggestions and export are disabled")
			}

			model, err := newDesignerModel(m, output, dzBottomMin)
			if err != nil {
				return err
			}
			p := tea.NewProgram(model, tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if dm, ok := final.(designerModel); ok && dm.exported {
				logger.Infof("Wrote %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hgrid, "hgrid", "", "horizontal mesh file (enables suggestions and export)")
	cmd.Flags().StringVarP(&output, "output", "o", "vgrid.in", "output vertical grid file")
	cmd.Flags().Float64Var(&dzBottomMin, "dz-bottom-min", 0.5, "minimum bottom layer thickness in meters, applied to preview and export")
	return cmd
}

// defaultTable seeds the designer with a small valid table so every edit
// starts from a validating state.
func defaultTable() *mastergrid.Table {
	t, err := mastergrid.New([]mastergrid.Anchor{
		{Depth: 50, Levels: 10},
		{Depth: 500, Levels: 30},
	})
	if err != nil {
		panic(err) // static anchors, cannot fail
	}
	return t
}
