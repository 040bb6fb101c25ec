// Package mastergrid defines the master grid table, the ordered set of
// (depth, levels) anchors that drives variable-quadratic/S vertical grids,
// and the strategies that build one.
//
// A table is valid when its depths are strictly ascending, its level counts
// are non-decreasing with depth, and it holds at least one anchor. Every
// mutation re-checks this invariant and rejects the edit on violation,
// leaving the table in its prior state, so consumers (the per-node assigner
// and the interactive designer) can rely on a table always being valid.
package mastergrid

import (
	"sort"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// Anchor is one row of the master grid: at Depth meters and below, use at
// least Levels vertical layers.
type Anchor struct {
	Depth  float64
	Levels int
}

// Table is an ordered, monotonicity-constrained sequence of anchors.
// The zero value is an empty table; populate it with InsertOrUpdate or one
// of the builders. A Table is owned by a single session and is not safe for
// concurrent mutation.
type Table struct {
	anchors []Anchor
}

// depthTolerance treats anchor depths closer than this as the same row.
const depthTolerance = 1e-9

// New returns a table holding the given anchors.
// Fails with MonotonicityViolation or InvalidSpec when the anchors do not
// form a valid table.
func New(anchors []Anchor) (*Table, error) {
	t := &Table{anchors: make([]Anchor, len(anchors))}
	copy(t.anchors, anchors)
	sort.Slice(t.anchors, func(i, j int) bool { return t.anchors[i].Depth < t.anchors[j].Depth })
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of anchors.
func (t *Table) Len() int { return len(t.anchors) }

// Anchors returns the anchors in ascending depth order.
// The returned slice is a copy; mutating it does not affect the table.
func (t *Table) Anchors() []Anchor {
	out := make([]Anchor, len(t.anchors))
	copy(out, t.anchors)
	return out
}

// Depths returns the anchor depths in ascending order.
func (t *Table) Depths() []float64 {
	out := make([]float64, len(t.anchors))
	for i, a := range t.anchors {
		out[i] = a.Depth
	}
	return out
}

// Levels returns the anchor level counts in depth order.
func (t *Table) Levels() []int {
	out := make([]int, len(t.anchors))
	for i, a := range t.anchors {
		out[i] = a.Levels
	}
	return out
}

// MaxLevels returns the largest level count in the table, or 0 when empty.
func (t *Table) MaxLevels() int {
	max := 0
	for _, a := range t.anchors {
		if a.Levels > max {
			max = a.Levels
		}
	}
	return max
}

// Validate checks the table invariant: non-empty, strictly ascending
// depths, non-decreasing level counts, every depth non-negative and every
// level count >= 2.
func (t *Table) Validate() error {
	if len(t.anchors) == 0 {
		return errors.New(errors.ErrCodeEmptyTable, "master grid table has no anchors")
	}
	for i, a := range t.anchors {
		if a.Depth < 0 {
			return errors.New(errors.ErrCodeNegativeDepth,
				"anchor %d has negative depth %g", i, a.Depth)
		}
		if a.Levels < 2 {
			return errors.New(errors.ErrCodeInvalidSpec,
				"anchor at depth %g has %d levels, want >= 2", a.Depth, a.Levels)
		}
		if i == 0 {
			continue
		}
		prev := t.anchors[i-1]
		if a.Depth-prev.Depth <= depthTolerance {
			return errors.New(errors.ErrCodeMonotonicityViolation,
				"anchor depths must be strictly ascending: %g followed by %g",
				prev.Depth, a.Depth)
		}
		if a.Levels < prev.Levels {
			return errors.New(errors.ErrCodeMonotonicityViolation,
				"level counts must not decrease with depth: %d levels at %gm but %d levels at %gm",
				prev.Levels, prev.Depth, a.Levels, a.Depth)
		}
	}
	return nil
}

// WouldViolate reports, without mutating the table, the error that
// InsertOrUpdate(a) would return. A nil result means the edit would be
// accepted. The designer uses this for live preview highlighting.
func (t *Table) WouldViolate(a Anchor) error {
	trial := Table{anchors: t.upserted(a)}
	return trial.Validate()
}

// InsertOrUpdate adds a new anchor, or replaces the anchor at the same
// depth. On a monotonicity violation the table is left unchanged and the
// error names the offending pair.
func (t *Table) InsertOrUpdate(a Anchor) error {
	trial := Table{anchors: t.upserted(a)}
	if err := trial.Validate(); err != nil {
		return err
	}
	t.anchors = trial.anchors
	return nil
}

// Remove deletes the anchor at the given depth. Returns false when no
// anchor matches.
func (t *Table) Remove(depth float64) bool {
	for i, a := range t.anchors {
		if sameDepth(a.Depth, depth) {
			t.anchors = append(t.anchors[:i:i], t.anchors[i+1:]...)
			return true
		}
	}
	return false
}

// upserted returns a sorted copy of the anchors with a applied.
func (t *Table) upserted(a Anchor) []Anchor {
	out := make([]Anchor, 0, len(t.anchors)+1)
	replaced := false
	for _, cur := range t.anchors {
		if sameDepth(cur.Depth, a.Depth) {
			out = append(out, a)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

func sameDepth(a, b float64) bool {
	d := a - b
	return d < depthTolerance && d > -depthTolerance
}

// Equal reports whether two tables hold the same anchors.
func (t *Table) Equal(other *Table) bool {
	if len(t.anchors) != len(other.anchors) {
		return false
	}
	for i, a := range t.anchors {
		if !sameDepth(a.Depth, other.anchors[i].Depth) || a.Levels != other.anchors[i].Levels {
			return false
		}
	}
	return true
}
