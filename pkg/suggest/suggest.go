// Package suggest derives candidate master grid tables from a mesh's depth
// distribution. The interactive designer re-runs a suggestion on every
// parameter change and applies the result directly, so every algorithm
// returns a table that already passes validation.
package suggest

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
)

// Algorithm selects an anchor placement strategy.
type Algorithm int

const (
	// Exponential spaces anchors geometrically, finer near the surface.
	Exponential Algorithm = iota
	// Uniform spaces anchors evenly over the depth range.
	Uniform
	// Percentile places anchors at evenly spaced percentiles of the
	// depth distribution.
	Percentile
)

// Algorithms lists the strategies in display order.
var Algorithms = []Algorithm{Exponential, Uniform, Percentile}

func (a Algorithm) String() string {
	switch a {
	case Exponential:
		return "exponential"
	case Uniform:
		return "uniform"
	case Percentile:
		return "percentile"
	}
	return "unknown"
}

// Description returns the one-line summary shown in the designer.
func (a Algorithm) Description() string {
	switch a {
	case Exponential:
		return "Exponential depth spacing, finer near surface"
	case Uniform:
		return "Linear spacing in both depth and levels"
	case Percentile:
		return "Anchors at evenly spaced depth percentiles"
	}
	return ""
}

// ParseAlgorithm resolves a CLI/config name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "exponential":
		return Exponential, nil
	case "uniform":
		return Uniform, nil
	case "percentile":
		return Percentile, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSpec,
		"unknown suggestion algorithm %q (want exponential, uniform or percentile)", name)
}

// Params tunes a suggestion.
type Params struct {
	// TargetLevels is the level count at the deepest anchor.
	TargetLevels int
	// ShallowLevels is the level count at the shallowest anchor.
	ShallowLevels int
	// AnchorCount is the number of anchors to place.
	AnchorCount int
	// SurfaceDz caps levels so no anchor implies layers thinner than
	// this, via N <= depth/SurfaceDz + 1. Zero disables the cap.
	SurfaceDz float64
}

// DefaultParams returns the parameter set the designer starts from.
func DefaultParams() Params {
	return Params{TargetLevels: 30, ShallowLevels: 2, AnchorCount: 4, SurfaceDz: 0.5}
}

func (p Params) validate() error {
	if p.ShallowLevels < 2 {
		return errors.New(errors.ErrCodeInvalidSpec, "shallow levels must be >= 2, got %d", p.ShallowLevels)
	}
	if p.TargetLevels < p.ShallowLevels {
		return errors.New(errors.ErrCodeInvalidSpec,
			"target levels (%d) must be >= shallow levels (%d)", p.TargetLevels, p.ShallowLevels)
	}
	if p.AnchorCount < 1 {
		return errors.New(errors.ErrCodeInvalidSpec, "anchor count must be >= 1, got %d", p.AnchorCount)
	}
	if p.SurfaceDz < 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "surface dz must be >= 0, got %g", p.SurfaceDz)
	}
	return nil
}

// Suggest builds a master grid table from the wet part of the depth
// distribution. The returned table always passes validation. The distribution
// is filtered and sorted on every call, so cost is O(n log n) in the mesh
// size; fast enough for interactive use on realistic meshes.
func Suggest(depths []float64, alg Algorithm, p Params) (*mastergrid.Table, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	wet := make([]float64, 0, len(depths))
	for _, d := range depths {
		if d > 0 {
			wet = append(wet, d)
		}
	}
	if len(wet) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "depth distribution has no wet depths")
	}
	sort.Float64s(wet)
	minDepth, maxDepth := wet[0], wet[len(wet)-1]

	var anchors []mastergrid.Anchor
	switch alg {
	case Exponential:
		anchors = suggestExponential(minDepth, maxDepth, p)
	case Uniform:
		anchors = suggestUniform(maxDepth, p)
	case Percentile:
		anchors = suggestPercentile(wet, p)
	default:
		return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown suggestion algorithm %d", int(alg))
	}

	return mastergrid.New(normalize(anchors, p))
}

func suggestExponential(minDepth, maxDepth float64, p Params) []mastergrid.Anchor {
	n := p.AnchorCount
	if n < 2 || maxDepth <= minDepth {
		return []mastergrid.Anchor{{Depth: maxDepth, Levels: p.TargetLevels}}
	}
	start := math.Max(minDepth, math.Max(p.SurfaceDz, 0.1))
	if start >= maxDepth {
		return []mastergrid.Anchor{{Depth: maxDepth, Levels: p.TargetLevels}}
	}
	scale := math.Pow(maxDepth/start, 1/float64(n-1))

	out := make([]mastergrid.Anchor, n)
	for i := range out {
		depth := start * math.Pow(scale, float64(i))
		frac := float64(i) / float64(n-1)
		levels := p.ShallowLevels + int(math.Round(frac*float64(p.TargetLevels-p.ShallowLevels)))
		out[i] = mastergrid.Anchor{Depth: depth, Levels: levels}
	}
	out[n-1].Depth = maxDepth
	return out
}

func suggestUniform(maxDepth float64, p Params) []mastergrid.Anchor {
	n := p.AnchorCount
	if n < 2 {
		return []mastergrid.Anchor{{Depth: maxDepth, Levels: p.TargetLevels}}
	}
	depthStep := maxDepth / float64(n)
	levelStep := float64(p.TargetLevels-p.ShallowLevels) / float64(n-1)

	out := make([]mastergrid.Anchor, n)
	for i := range out {
		out[i] = mastergrid.Anchor{
			Depth:  float64(i+1) * depthStep,
			Levels: p.ShallowLevels + int(math.Round(float64(i)*levelStep)),
		}
	}
	out[n-1] = mastergrid.Anchor{Depth: maxDepth, Levels: p.TargetLevels}
	return out
}

func suggestPercentile(sorted []float64, p Params) []mastergrid.Anchor {
	n := p.AnchorCount
	maxDepth := sorted[len(sorted)-1]
	if n < 2 {
		return []mastergrid.Anchor{{Depth: maxDepth, Levels: p.TargetLevels}}
	}

	out := make([]mastergrid.Anchor, n)
	for i := range out {
		pct := 100 * float64(i) / float64(n-1)
		// stats.Percentile rejects pct 0 and any pct whose rank falls below
		// the first element; both resolve to the shallowest depth.
		depth := sorted[0]
		if pct > 0 {
			if d, err := stats.Percentile(sorted, pct); err == nil {
				depth = d
			}
		}
		frac := depth / maxDepth
		levels := p.ShallowLevels + int(math.Round(frac*float64(p.TargetLevels-p.ShallowLevels)))
		out[i] = mastergrid.Anchor{Depth: depth, Levels: levels}
	}
	out[n-1] = mastergrid.Anchor{Depth: maxDepth, Levels: p.TargetLevels}
	return out
}

// normalize applies the surface-dz level cap, merges anchors that landed on
// the same depth, and forces level counts non-decreasing so the result
// always builds a valid table.
func normalize(anchors []mastergrid.Anchor, p Params) []mastergrid.Anchor {
	for i := range anchors {
		if p.SurfaceDz > 0 {
			most := int(math.Floor(anchors[i].Depth/p.SurfaceDz)) + 1
			if anchors[i].Levels > most {
				anchors[i].Levels = most
			}
		}
		if anchors[i].Levels < 2 {
			anchors[i].Levels = 2
		}
	}

	const tol = 1e-9
	merged := anchors[:0]
	for _, a := range anchors {
		if len(merged) > 0 && a.Depth-merged[len(merged)-1].Depth <= tol {
			if a.Levels > merged[len(merged)-1].Levels {
				merged[len(merged)-1].Levels = a.Levels
			}
			continue
		}
		merged = append(merged, a)
	}

	for i := 1; i < len(merged); i++ {
		if merged[i].Levels < merged[i-1].Levels {
			merged[i].Levels = merged[i-1].Levels
		}
	}
	return merged
}
