package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/vqs"
)

func newExtractCmd() *cobra.Command {
	var (
		hgrid  string
		vgrid  string
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover the master grid table from an existing vertical grid",
		Long: `Analyzes an existing ivcor=1 vertical grid together with its horizontal
mesh and reverse-engineers the master depth/level anchors that were likely
used to generate it. Only wet nodes contribute.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			m, err := mesh.Open(hgrid)
			if err != nil {
				return err
			}
			nvrt, counts, err := vqs.ReadLevelCountsFile(vgrid)
			if err != nil {
				return err
			}
			logger.Infof("Loaded %s: %d nodes; %s: nvrt=%d", hgrid, m.Len(), vgrid, nvrt)

			table, err := vqs.ExtractTable(m, counts)
			if err != nil {
				return err
			}
			logger.Infof("Extracted %d anchors", table.Len())

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidSpec, err, "create %s", output)
				}
				defer f.Close()
				out = f
			}
			return renderTable(out, table, format)
		},
	}

	cmd.Flags().StringVar(&hgrid, "hgrid", "hgrid.gr3", "horizontal mesh file")
	cmd.Flags().StringVar(&vgrid, "vgrid", "vgrid.in", "vertical grid file to analyze")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, csv, hsm)")
	return cmd
}

// renderTable writes the extracted anchors in one of the supported formats:
// a human-readable table, csv, or the hsm flag form accepted by vqs hsm.
func renderTable(out io.Writer, table *mastergrid.Table, format string) error {
	anchors := table.Anchors()
	switch format {
	case "table":
		tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DEPTH\tLEVELS")
		for _, a := range anchors {
			fmt.Fprintf(tw, "%.2f\t%d\n", a.Depth, a.Levels)
		}
		return tw.Flush()
	case "csv":
		fmt.Fprintln(out, "depth,levels")
		for _, a := range anchors {
			fmt.Fprintf(out, "%g,%d\n", a.Depth, a.Levels)
		}
		return nil
	case "hsm":
		depths := make([]string, len(anchors))
		levels := make([]string, len(anchors))
		for i, a := range anchors {
			depths[i] = fmt.Sprintf("%g", a.Depth)
			levels[i] = fmt.Sprintf("%d", a.Levels)
		}
		fmt.Fprintf(out, "--depths %s --levels %s\n",
			strings.Join(depths, ","), strings.Join(levels, ","))
		return nil
	}
	return errors.New(errors.ErrCodeInvalidSpec, "unknown output format %q (want table, csv or hsm)", format)
}
