package mastergrid

import (
	"math"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// BuildHSM builds a table from explicit parallel depth and level-count
// slices, the classic Hierarchical Sigma Method input.
//
// Fails with ArityMismatch when the slices differ in length, InvalidSpec
// when they are empty, and MonotonicityViolation when depths are not
// strictly ascending or level counts decrease with depth.
func BuildHSM(depths []float64, levels []int) (*Table, error) {
	if len(depths) != len(levels) {
		return nil, errors.New(errors.ErrCodeArityMismatch,
			"depths and nlevels must be the same length, got %d and %d",
			len(depths), len(levels))
	}
	if len(depths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "at least one depth/levels pair is required")
	}
	anchors := make([]Anchor, len(depths))
	for i := range depths {
		anchors[i] = Anchor{Depth: depths[i], Levels: levels[i]}
	}
	// Depths must already be ascending for HSM input; detect reordering
	// rather than silently sorting user data.
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			return nil, errors.New(errors.ErrCodeMonotonicityViolation,
				"depths must be strictly ascending: %g followed by %g", depths[i-1], depths[i])
		}
	}
	return New(anchors)
}

// AutoSpec parameterizes the parametric table generator.
type AutoSpec struct {
	// Grids is the number of anchors to generate. Must be >= 1.
	Grids int
	// ShallowLevels is the level count of the shallowest anchor. Must be >= 2.
	ShallowLevels int
	// MaxLevels caps the level count of the deepest anchor. Must be >= 2
	// and >= ShallowLevels. Zero means ShallowLevels + Grids - 1.
	MaxLevels int
	// InitialDepth is the depth of the first anchor, positive down.
	// Zero means the shallower of 1m and the shallowest mesh depth.
	InitialDepth float64
}

// BuildAuto generates a table of spec.Grids anchors whose depths follow a
// geometric progression between the shallowest and deepest mesh depth,
// concentrating anchors in shallow water, and whose level counts grow along
// the matching exponential law from ShallowLevels up to MaxLevels.
func BuildAuto(meshDepths []float64, spec AutoSpec) (*Table, error) {
	if spec.Grids < 1 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "grid count must be >= 1, got %d", spec.Grids)
	}
	if spec.ShallowLevels < 2 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "shallow levels must be >= 2, got %d", spec.ShallowLevels)
	}
	maxLevels := spec.MaxLevels
	if maxLevels == 0 {
		maxLevels = spec.ShallowLevels + spec.Grids - 1
	}
	if maxLevels < 2 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "max levels must be >= 2, got %d", maxLevels)
	}
	if maxLevels < spec.ShallowLevels {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"max levels (%d) must be >= shallow levels (%d)", maxLevels, spec.ShallowLevels)
	}
	minDepth, maxDepth, ok := depthRange(meshDepths)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "mesh has no positive depths")
	}

	initial := spec.InitialDepth
	if initial <= 0 {
		initial = math.Min(1.0, minDepth)
	}
	if initial > maxDepth {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"initial depth %g exceeds deepest mesh depth %g", initial, maxDepth)
	}

	if spec.Grids == 1 || maxDepth-initial <= depthTolerance {
		return New([]Anchor{{Depth: maxDepth, Levels: maxLevels}})
	}

	samples := geometricSamples(initial, maxDepth, spec.Grids)
	levels := levelLaw(initial, maxDepth, spec.ShallowLevels, maxLevels)

	anchors := make([]Anchor, 0, spec.Grids)
	prevLevels := 0
	for _, d := range samples {
		n := levels(d)
		if n < prevLevels {
			n = prevLevels
		}
		anchors = append(anchors, Anchor{Depth: d, Levels: n})
		prevLevels = n
	}
	return New(anchors)
}

// geometricSamples returns n depths from start to end in a geometric
// progression, endpoints exact.
func geometricSamples(start, end float64, n int) []float64 {
	ratio := math.Pow(end/start, 1/float64(n-1))
	out := make([]float64, n)
	for i := range out {
		out[i] = start * math.Pow(ratio, float64(i))
	}
	out[0] = start
	out[n-1] = end
	return out
}

// levelLaw returns the exponential depth-to-levels law passing through
// (shallowLevels, d0) and (maxLevels, dmax), clamped to that range.
func levelLaw(d0, dmax float64, shallowLevels, maxLevels int) func(float64) int {
	if maxLevels == shallowLevels {
		return func(float64) int { return shallowLevels }
	}
	x1, x2 := float64(shallowLevels), float64(maxLevels)
	b := math.Pow(dmax/d0, 1/(x2-x1))
	a := d0 / math.Pow(b, x1)
	return func(depth float64) int {
		n := int(math.Round(math.Log(depth/a) / math.Log(b)))
		if n < shallowLevels {
			n = shallowLevels
		}
		if n > maxLevels {
			n = maxLevels
		}
		return n
	}
}

// depthRange returns the minimum and maximum of the positive depths.
func depthRange(depths []float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, d := range depths {
		if d <= 0 {
			continue
		}
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
		ok = true
	}
	return min, max, ok
}
