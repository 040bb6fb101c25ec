// Package sz builds classic sigma-z hybrid vertical grids (ivcor=2): an
// S-stretched sigma region above a demarcation depth and fixed z levels
// below it.
package sz

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mesh"
	"github.com/oceanmesh/vgrid/pkg/stretching"
)

// Spec parameterizes an SZ grid.
type Spec struct {
	// SLevels is the sigma level count of the upper region. Must be >= 2.
	SLevels int
	// ZLevels are the fixed z coordinates of the lower region, negative
	// down and strictly ascending, the deepest at or below the deepest
	// mesh point. Empty means a single z level at the deepest point.
	ZLevels []float64
	// ThetaF, ThetaB and AVqs0 shape the S-transform of the sigma region.
	ThetaF float64
	ThetaB float64
	AVqs0  float64
	// CriticalDepth (hc) bounds the sigma region. Must be >= 5 meters.
	CriticalDepth float64
}

// Grid is a built sigma-z vertical grid.
type Grid struct {
	sigma   []float64 // bottom (-1) to surface (0)
	zLevels []float64
	thetaF  float64
	thetaB  float64
	hc      float64
}

// Build derives an SZ grid for the mesh's depth range.
func Build(m *mesh.Mesh, spec Spec) (*Grid, error) {
	if spec.SLevels < 2 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "slevels must be >= 2, got %d", spec.SLevels)
	}
	if spec.CriticalDepth < 5 {
		return nil, errors.New(errors.ErrCodeParameterOutOfRange,
			"critical depth must be >= 5, got %g", spec.CriticalDepth)
	}
	stats, err := m.Stats()
	if err != nil {
		return nil, err
	}

	zLevels := spec.ZLevels
	if len(zLevels) == 0 {
		zLevels = []float64{-stats.Max}
	} else if err := validateZLevels(zLevels, stats.Max); err != nil {
		return nil, err
	}

	params := stretching.Params{
		AVqs0:  spec.AVqs0,
		ThetaF: spec.ThetaF,
		ThetaB: spec.ThetaB,
		Etal:   spec.CriticalDepth,
	}
	sigma, err := stretching.S.Profile(spec.SLevels, params)
	if err != nil {
		return nil, err
	}
	return &Grid{
		sigma:   sigma,
		zLevels: zLevels,
		thetaF:  spec.ThetaF,
		thetaB:  spec.ThetaB,
		hc:      spec.CriticalDepth,
	}, nil
}

func validateZLevels(zLevels []float64, maxDepth float64) error {
	for _, z := range zLevels {
		if z > 0 {
			return errors.New(errors.ErrCodeInvalidSpec, "z levels must be <= 0, got %g", z)
		}
	}
	for i := 1; i < len(zLevels); i++ {
		if zLevels[i] <= zLevels[i-1] {
			return errors.New(errors.ErrCodeInvalidSpec,
				"z levels must be strictly ascending: %g followed by %g", zLevels[i-1], zLevels[i])
		}
	}
	if zLevels[0] > -maxDepth {
		return errors.New(errors.ErrCodeInvalidSpec,
			"deepest z level %g is above the deepest mesh point %g", zLevels[0], -maxDepth)
	}
	return nil
}

// IVcor identifies the vertical coordinate type: 2 for SZ grids.
func (g *Grid) IVcor() int { return 2 }

// NVrt returns the total level count; the demarcation level is shared
// between the z and sigma regions.
func (g *Grid) NVrt() int { return len(g.sigma) + len(g.zLevels) - 1 }

// KZ returns the z region level count.
func (g *Grid) KZ() int { return len(g.zLevels) }

// HS returns the demarcation depth between the z and sigma regions.
func (g *Grid) HS() float64 { return -g.zLevels[len(g.zLevels)-1] }

// Sigma returns the sigma values of the upper region, bottom first.
func (g *Grid) Sigma() []float64 {
	out := make([]float64, len(g.sigma))
	copy(out, g.sigma)
	return out
}

// ZLevels returns the fixed z levels of the lower region, deepest first.
func (g *Grid) ZLevels() []float64 {
	out := make([]float64, len(g.zLevels))
	copy(out, g.zLevels)
	return out
}

// Write serializes the grid in the ivcor=2 vertical-grid file layout.
func (g *Grid) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", g.IVcor())
	fmt.Fprintf(bw, "%d %d %g\n", g.NVrt(), g.KZ(), g.HS())
	fmt.Fprintln(bw, "Z levels")
	for i, z := range g.zLevels {
		fmt.Fprintf(bw, "%d %g\n", i+1, z)
	}
	fmt.Fprintln(bw, "S levels")
	fmt.Fprintf(bw, "%g %g %g\n", g.hc, g.thetaB, g.thetaF)
	for i, s := range g.sigma {
		fmt.Fprintf(bw, "%d %g\n", i+g.KZ(), s)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGrid, err, "write sz grid")
	}
	return nil
}

// WriteFile writes the grid to path.
func (g *Grid) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGrid, err, "create %s", path)
	}
	defer f.Close()
	if err := g.Write(f); err != nil {
		return err
	}
	return f.Close()
}
