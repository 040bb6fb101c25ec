package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/stretching"
	"github.com/oceanmesh/vgrid/pkg/vqs"
)

// vqsOpts holds the flags shared by the vqs subcommands.
type vqsOpts struct {
	hgrid       string
	output      string
	configPath  string
	function    string
	aVqs0       float64
	thetaF      float64
	thetaB      float64
	thetaS      float64
	hc          float64
	etal        float64
	dzBottomMin float64

	// hsm
	depths []float64
	levels []int
	// kmeans
	clusters int
	// kmeans and auto
	shallowLevels int
	maxLevels     int
	// auto
	grids        int
	initialDepth float64
}

func newVQSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vqs",
		Short: "Build a VQS vertical grid from a horizontal mesh",
		Long: `Builds a variable quadratic/S (ivcor=1) vertical grid. The master grid
table comes from one of three strategies: explicit depth/level pairs (hsm),
depth clustering (kmeans), or a parametric geometric progression (auto).`,
	}
	cmd.AddCommand(newVQSHSMCmd())
	cmd.AddCommand(newVQSKMeansCmd())
	cmd.AddCommand(newVQSAutoCmd())
	return cmd
}

// registerShared adds the flags every vqs subcommand accepts.
func (o *vqsOpts) registerShared(cmd *cobra.Command) {
	defaults := stretching.DefaultParams()
	cmd.Flags().StringVar(&o.hgrid, "hgrid", "hgrid.gr3", "horizontal mesh file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "vgrid.in", "output vertical grid file")
	cmd.Flags().StringVar(&o.configPath, "config", "", "TOML job file with defaults")
	cmd.Flags().StringVar(&o.function, "stretching", "quadratic", "stretching function (quadratic, s, shchepetkin2005, shchepetkin2010, geyer)")
	cmd.Flags().Float64Var(&o.aVqs0, "a-vqs0", defaults.AVqs0, "quadratic curvature, in [-1, 1]")
	cmd.Flags().Float64Var(&o.thetaF, "theta-f", defaults.ThetaF, "S-transform focusing intensity, in (0, 20]")
	cmd.Flags().Float64Var(&o.thetaB, "theta-b", defaults.ThetaB, "bottom/surface blending")
	cmd.Flags().Float64Var(&o.thetaS, "theta-s", defaults.ThetaS, "ROMS surface stretching, in [0, 10]")
	cmd.Flags().Float64Var(&o.hc, "hc", defaults.Hc, "ROMS critical depth in meters")
	cmd.Flags().Float64Var(&o.etal, "etal", defaults.Etal, "free-surface elevation")
	cmd.Flags().Float64Var(&o.dzBottomMin, "dz-bottom-min", 0, "minimum bottom layer thickness in meters")
}

// applyConfig overlays config file values underneath any flag the user did
// not set explicitly.
func (o *vqsOpts) applyConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	s := cfg.Stretching
	if s.Function != "" && !flags.Changed("stretching") {
		o.function = s.Function
	}
	setFloat := func(name string, src *float64, dst *float64) {
		if src != nil && !flags.Changed(name) {
			*dst = *src
		}
	}
	setFloat("a-vqs0", s.AVqs0, &o.aVqs0)
	setFloat("theta-f", s.ThetaF, &o.thetaF)
	setFloat("theta-b", s.ThetaB, &o.thetaB)
	setFloat("theta-s", s.ThetaS, &o.thetaS)
	setFloat("hc", s.Hc, &o.hc)
	setFloat("etal", s.Etal, &o.etal)
	setFloat("dz-bottom-min", cfg.VQS.DzBottomMin, &o.dzBottomMin)
	if len(cfg.VQS.Depths) > 0 && !flags.Changed("depths") {
		o.depths = cfg.VQS.Depths
	}
	if len(cfg.VQS.Levels) > 0 && !flags.Changed("levels") {
		o.levels = cfg.VQS.Levels
	}
	return nil
}

// assignOptions resolves the stretching selection into assigner options.
func (o *vqsOpts) assignOptions() (vqs.Options, error) {
	variant, err := stretching.ParseVariant(o.function)
	if err != nil {
		return vqs.Options{}, err
	}
	params := stretching.Params{
		AVqs0:  o.aVqs0,
		ThetaF: o.thetaF,
		ThetaB: o.thetaB,
		ThetaS: o.thetaS,
		Hc:     o.hc,
		Etal:   o.etal,
	}
	if err := variant.Validate(params); err != nil {
		return vqs.Options{}, err
	}
	return vqs.Options{Variant: variant, Params: params, DzBottomMin: o.dzBottomMin}, nil
}

// run loads the mesh, builds the master table via tableFn, assigns levels
// to every node and writes the vertical grid file.
func (o *vqsOpts) run(ctx context.Context, tableFn func(*mesh.Mesh) (*mastergrid.Table, error)) error {
	logger := loggerFromContext(ctx)

	opts, err := o.assignOptions()
	if err != nil {
		return err
	}

	m, err := mesh.Open(o.hgrid)
	if err != nil {
		return err
	}
	stats, err := m.Stats()
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %d nodes (%d wet), depths %.2f to %.2f m",
		o.hgrid, m.Len(), stats.Wet, stats.Min, stats.Max)

	table, err := tableFn(m)
	if err != nil {
		return err
	}
	for _, a := range table.Anchors() {
		logger.Debugf("anchor: %10.2f m -> %d levels", a.Depth, a.Levels)
	}
	logger.Infof("Master grid: %d anchors, nvrt up to %d", table.Len(), table.MaxLevels())

	p := newProgress(logger)
	grid, err := vqs.Build(m, table, opts)
	if err != nil {
		return err
	}
	if truncated := grid.TruncatedNodes(); len(truncated) > 0 {
		logger.Warnf("Bottom truncation applied at %d nodes (dz_bottom_min=%g)",
			len(truncated), o.dzBottomMin)
	}
	if err := grid.WriteFile(o.output); err != nil {
		return err
	}
	p.done("Wrote " + o.output)
	return nil
}

func newVQSHSMCmd() *cobra.Command {
	opts := &vqsOpts{}
	cmd := &cobra.Command{
		Use:   "hsm",
		Short: "Build the master grid from explicit depth/level pairs",
		Example: `  vgrid vqs hsm --hgrid hgrid.gr3 \
    --depths 50,60,80,110,150,200,260,330,410,500,600,8426 \
    --levels 21,22,23,24,25,26,27,28,29,30,31,32`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			return opts.run(cmd.Context(), func(*mesh.Mesh) (*mastergrid.Table, error) {
				return mastergrid.BuildHSM(opts.depths, opts.levels)
			})
		},
	}
	opts.registerShared(cmd)
	cmd.Flags().Float64SliceVar(&opts.depths, "depths", nil, "master grid depths, ascending")
	cmd.Flags().IntSliceVar(&opts.levels, "levels", nil, "level count per master depth")
	return cmd
}

func newVQSKMeansCmd() *cobra.Command {
	opts := &vqsOpts{}
	cmd := &cobra.Command{
		Use:   "kmeans",
		Short: "Derive the master grid by clustering the depth distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			return opts.run(cmd.Context(), func(m *mesh.Mesh) (*mastergrid.Table, error) {
				return mastergrid.BuildKMeans(m.Depths(), mastergrid.KMeansSpec{
					Clusters:      opts.clusters,
					ShallowLevels: opts.shallowLevels,
					MaxLevels:     opts.maxLevels,
				})
			})
		},
	}
	opts.registerShared(cmd)
	cmd.Flags().IntVar(&opts.clusters, "clusters", 20, "number of depth clusters")
	cmd.Flags().IntVar(&opts.shallowLevels, "shallow-levels", 2, "levels at the shallowest cluster")
	cmd.Flags().IntVar(&opts.maxLevels, "max-levels", 0, "levels at the deepest cluster (0 = shallow + clusters - 1)")
	return cmd
}

func newVQSAutoCmd() *cobra.Command {
	opts := &vqsOpts{}
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Generate the master grid from a geometric depth progression",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			return opts.run(cmd.Context(), func(m *mesh.Mesh) (*mastergrid.Table, error) {
				return mastergrid.BuildAuto(m.Depths(), mastergrid.AutoSpec{
					Grids:         opts.grids,
					ShallowLevels: opts.shallowLevels,
					MaxLevels:     opts.maxLevels,
					InitialDepth:  opts.initialDepth,
				})
			})
		},
	}
	opts.registerShared(cmd)
	cmd.Flags().IntVar(&opts.grids, "grids", 10, "number of master grids to generate")
	cmd.Flags().IntVar(&opts.shallowLevels, "shallow-levels", 2, "levels at the shallowest anchor")
	cmd.Flags().IntVar(&opts.maxLevels, "max-levels", 0, "levels at the deepest anchor (0 = shallow + grids - 1)")
	cmd.Flags().Float64Var(&opts.initialDepth, "initial-depth", 0, "depth of the first anchor (0 = min(1m, shallowest depth))")
	return cmd
}
