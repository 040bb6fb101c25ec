package vqs

import (
	"sort"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
)

// ExtractTable reverse-engineers the master grid table behind an existing
// vertical grid. For every distinct used level count it takes the deepest
// wet node carrying that count as the anchor depth, which recovers the
// depth thresholds at which the generating table switched level counts.
//
// counts must be the per-node level counts of the vertical grid, in the
// same node order as m.
func ExtractTable(m *mesh.Mesh, counts LevelCounts) (*mastergrid.Table, error) {
	if m.Len() != len(counts) {
		return nil, errors.New(errors.ErrCodeArityMismatch,
			"mesh has %d nodes but the vertical grid has %d", m.Len(), len(counts))
	}

	deepest := make(map[int]float64)
	for i, node := range m.Nodes() {
		if node.Depth <= 0 || counts[i] < 2 {
			continue
		}
		if d, ok := deepest[counts[i]]; !ok || node.Depth > d {
			deepest[counts[i]] = node.Depth
		}
	}
	if len(deepest) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "no wet nodes to extract anchors from")
	}

	levels := make([]int, 0, len(deepest))
	for n := range deepest {
		levels = append(levels, n)
	}
	sort.Ints(levels)

	// A shallower anchor must not be deeper than any higher-level anchor;
	// noise from truncated nodes is folded into the next anchor up.
	anchors := make([]mastergrid.Anchor, 0, len(levels))
	for _, n := range levels {
		a := mastergrid.Anchor{Depth: deepest[n], Levels: n}
		for len(anchors) > 0 && anchors[len(anchors)-1].Depth >= a.Depth {
			anchors = anchors[:len(anchors)-1]
		}
		anchors = append(anchors, a)
	}
	return mastergrid.New(anchors)
}
