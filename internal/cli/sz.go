package cli

import (
	"github.com/spf13/cobra"

	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/sz"
)

func newSZCmd() *cobra.Command {
	var (
		hgrid         string
		output        string
		configPath    string
		slevels       int
		zlevels       []float64
		thetaF        float64
		thetaB        float64
		aVqs0         float64
		criticalDepth float64
	)

	cmd := &cobra.Command{
		Use:   "sz",
		Short: "Build a classic sigma-z (ivcor=2) vertical grid",
		Long: `Builds a hybrid vertical grid with an S-stretched sigma region above the
critical depth and fixed z levels below it. Without --zlevels a single z
level is placed at the deepest mesh point.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if cfg.SZ.SLevels != nil && !flags.Changed("slevels") {
				slevels = *cfg.SZ.SLevels
			}
			if len(cfg.SZ.ZLevels) > 0 && !flags.Changed("zlevels") {
				zlevels = cfg.SZ.ZLevels
			}
			if cfg.SZ.CriticalDepth != nil && !flags.Changed("critical-depth") {
				criticalDepth = *cfg.SZ.CriticalDepth
			}
			if cfg.Stretching.ThetaF != nil && !flags.Changed("theta-f") {
				thetaF = *cfg.Stretching.ThetaF
			}
			if cfg.Stretching.ThetaB != nil && !flags.Changed("theta-b") {
				thetaB = *cfg.Stretching.ThetaB
			}

			logger := loggerFromContext(cmd.Context())
			m, err := mesh.Open(hgrid)
			if err != nil {
				return err
			}
			stats, err := m.Stats()
			if err != nil {
				return err
			}
			logger.Infof("Loaded %s: %d nodes (%d wet), deepest point %.2f m",
				hgrid, m.Len(), stats.Wet, stats.Max)

			p := newProgress(logger)
			grid, err := sz.Build(m, sz.Spec{
				SLevels:       slevels,
				ZLevels:       zlevels,
				ThetaF:        thetaF,
				ThetaB:        thetaB,
				AVqs0:         aVqs0,
				CriticalDepth: criticalDepth,
			})
			if err != nil {
				return err
			}
			logger.Infof("SZ grid: nvrt=%d, kz=%d, h_s=%.2f m", grid.NVrt(), grid.KZ(), grid.HS())
			if err := grid.WriteFile(output); err != nil {
				return err
			}
			p.done("Wrote " + output)
			return nil
		},
	}

	cmd.Flags().StringVar(&hgrid, "hgrid", "hgrid.gr3", "horizontal mesh file")
	cmd.Flags().StringVarP(&output, "output", "o", "vgrid.in", "output vertical grid file")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML job file with defaults")
	cmd.Flags().IntVar(&slevels, "slevels", 20, "sigma level count")
	cmd.Flags().Float64SliceVar(&zlevels, "zlevels", nil, "fixed z levels, negative ascending")
	cmd.Flags().Float64Var(&thetaF, "theta-f", 3.0, "S-transform focusing intensity, in (0, 20]")
	cmd.Flags().Float64Var(&thetaB, "theta-b", 0.5, "bottom/surface blending, in [0, 1]")
	cmd.Flags().Float64Var(&aVqs0, "a-vqs0", -1.0, "quadratic curvature, in [-1, 1]")
	cmd.Flags().Float64Var(&criticalDepth, "critical-depth", 30, "sigma/z demarcation depth hc, >= 5 m")
	return cmd
}
