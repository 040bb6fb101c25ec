// Package vqs assigns variable-quadratic/S vertical levels to mesh nodes
// from a master grid table and serializes the result as a vertical-grid
// file (ivcor=1).
package vqs

import (
	"math"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/stretching"
)

// Options selects the stretching function and bottom treatment shared by
// every node of a grid.
type Options struct {
	Variant stretching.Variant
	Params  stretching.Params
	// DzBottomMin drops bottom levels whose layer would end up thinner
	// than this, in meters. Zero disables truncation.
	DzBottomMin float64
}

// PerNodeLevels is the vertical column assigned to one node.
type PerNodeLevels struct {
	// Z holds the absolute vertical coordinates, ascending: Z[0] is the
	// bottom (-depth), the last entry the surface.
	Z []float64
	// Requested is the level count interpolated from the master table.
	Requested int
	// Used is the level count after bottom truncation, Used <= Requested.
	Used int
	// Truncated reports whether bottom levels were dropped.
	Truncated bool
}

// Sigma returns the column as local sigma coordinates: -1 at the bottom,
// 0 at the surface. A zero-depth column collapses to a uniform spacing.
func (p PerNodeLevels) Sigma(depth float64) []float64 {
	out := make([]float64, len(p.Z))
	n := len(p.Z)
	if depth <= 0 {
		for k := range out {
			out[k] = -1 + float64(k)/float64(n-1)
		}
		return out
	}
	for k, z := range p.Z {
		out[k] = z / depth
	}
	out[0] = -1
	out[n-1] = 0
	return out
}

// Assign computes the vertical column for a single node of the given depth.
//
// The level count is interpolated linearly between the master-table anchors
// bracketing the depth, clamped to the boundary anchor outside the table's
// range, and never below the shallower anchor's count. The column itself is
// the stretching profile scaled to the node depth, with bottom levels
// truncated where the layer thickness would fall below opts.DzBottomMin.
//
// Fails with EmptyTable when the table has no anchors and NegativeDepth for
// depths below zero. Identical inputs always produce identical outputs.
func Assign(depth float64, table *mastergrid.Table, opts Options) (PerNodeLevels, error) {
	if table == nil || table.Len() == 0 {
		return PerNodeLevels{}, errors.New(errors.ErrCodeEmptyTable, "master grid table has no anchors")
	}
	if depth < 0 {
		return PerNodeLevels{}, errors.New(errors.ErrCodeNegativeDepth,
			"node depth must be >= 0, got %g", depth)
	}
	if opts.DzBottomMin < 0 {
		return PerNodeLevels{}, errors.New(errors.ErrCodeInvalidSpec,
			"dz_bottom_min must be >= 0, got %g", opts.DzBottomMin)
	}

	n := interpolateLevels(depth, table.Anchors())
	z, err := opts.Variant.ZProfile(depth, n, opts.Params)
	if err != nil {
		return PerNodeLevels{}, err
	}

	used, err := truncateBottom(z, depth, opts.DzBottomMin)
	if err != nil {
		return PerNodeLevels{}, err
	}
	return PerNodeLevels{
		Z:         used,
		Requested: n,
		Used:      len(used),
		Truncated: len(used) < n,
	}, nil
}

// interpolateLevels derives the level count for a depth from its bracketing
// anchors: linear in depth, rounded, clamped between the pair's counts.
// Depths outside the table clamp to the nearest boundary anchor.
func interpolateLevels(depth float64, anchors []mastergrid.Anchor) int {
	if depth <= anchors[0].Depth {
		return anchors[0].Levels
	}
	last := anchors[len(anchors)-1]
	if depth >= last.Depth {
		return last.Levels
	}
	i := 1
	for anchors[i].Depth < depth {
		i++
	}
	lo, hi := anchors[i-1], anchors[i]
	frac := (depth - lo.Depth) / (hi.Depth - lo.Depth)
	n := lo.Levels + int(math.Round(frac*float64(hi.Levels-lo.Levels)))
	if n < lo.Levels {
		n = lo.Levels
	}
	if n > hi.Levels {
		n = hi.Levels
	}
	return n
}

// truncateBottom drops bottom levels until the bottom layer is at least
// dzMin thick, then pins the bottom back to -depth so the merged layer
// spans the dropped ones. dzMin of zero keeps the column as is.
func truncateBottom(z []float64, depth, dzMin float64) ([]float64, error) {
	if dzMin == 0 || depth == 0 {
		return z, nil
	}
	// First level no closer to the bed than dzMin survives; everything
	// beneath it merges into the new bottom layer.
	j := 0
	for j < len(z) && z[j] < -depth+dzMin {
		j++
	}
	if j >= len(z) {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"dz_bottom_min %g leaves fewer than two levels at depth %g", dzMin, depth)
	}
	if j <= 1 {
		return z, nil
	}
	out := append([]float64{-depth}, z[j:]...)
	return out, nil
}
