// Package mesh reads horizontal unstructured grids and summarizes their
// bathymetry for vertical-grid construction.
package mesh

import (
	"github.com/montanaflynn/stats"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// Node is a single horizontal grid node. Depth is positive down, so wet
// nodes carry positive depths and dry or land nodes zero or negative ones.
type Node struct {
	ID    int
	X, Y  float64
	Depth float64
}

// Mesh is an ordered collection of horizontal grid nodes. Node order is the
// file order, which downstream writers must preserve.
type Mesh struct {
	Name  string
	nodes []Node
}

// New builds a mesh from an ordered node list.
func New(name string, nodes []Node) *Mesh {
	return &Mesh{Name: name, nodes: nodes}
}

// Len returns the node count.
func (m *Mesh) Len() int { return len(m.nodes) }

// Nodes returns the nodes in file order. The slice is shared, not copied.
func (m *Mesh) Nodes() []Node { return m.nodes }

// Depths returns every node depth in file order.
func (m *Mesh) Depths() []float64 {
	out := make([]float64, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Depth
	}
	return out
}

// WetDepths returns the positive node depths, in file order.
func (m *Mesh) WetDepths() []float64 {
	out := make([]float64, 0, len(m.nodes))
	for _, n := range m.nodes {
		if n.Depth > 0 {
			out = append(out, n.Depth)
		}
	}
	return out
}

// DepthStats summarizes the wet part of a mesh's depth distribution.
type DepthStats struct {
	Wet    int // wet node count
	Dry    int // nodes at or above the surface
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P10    float64
	P90    float64
}

// Stats computes summary statistics over the wet depths. Fails with
// InvalidMesh when the mesh has no wet nodes.
func (m *Mesh) Stats() (DepthStats, error) {
	wet := m.WetDepths()
	if len(wet) == 0 {
		return DepthStats{}, errors.New(errors.ErrCodeInvalidMesh, "mesh %q has no wet nodes", m.Name)
	}
	s := DepthStats{Wet: len(wet), Dry: m.Len() - len(wet)}

	var err error
	data := stats.Float64Data(wet)
	if s.Min, err = data.Min(); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth minimum")
	}
	if s.Max, err = data.Max(); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth maximum")
	}
	if s.Mean, err = data.Mean(); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth mean")
	}
	if s.Median, err = data.Median(); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth median")
	}
	if s.P10, err = data.Percentile(10); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth 10th percentile")
	}
	if s.P90, err = data.Percentile(90); err != nil {
		return DepthStats{}, errors.Wrap(errors.ErrCodeInvalidMesh, err, "depth 90th percentile")
	}
	return s, nil
}
