package vqs

import (
	"math"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mastergrid"
	"github.com/oceanmesh/vgrid/pkg/mesh"
)

// Grid is a complete vertical grid: one column per mesh node, in mesh file
// order, under a shared global level count.
type Grid struct {
	nvrt    int
	depths  []float64
	columns []PerNodeLevels
}

// Build assigns a vertical column to every node of m. Dry nodes (depth at
// or above the surface) are assigned the shallowest anchor's column at zero
// depth. The global level count is the maximum used count over all nodes.
func Build(m *mesh.Mesh, table *mastergrid.Table, opts Options) (*Grid, error) {
	if m == nil || m.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "mesh has no nodes")
	}
	g := &Grid{
		depths:  make([]float64, 0, m.Len()),
		columns: make([]PerNodeLevels, 0, m.Len()),
	}
	for _, node := range m.Nodes() {
		depth := node.Depth
		if depth < 0 {
			depth = 0
		}
		col, err := Assign(depth, table, opts)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "node %d (depth %g)", node.ID, node.Depth)
		}
		g.depths = append(g.depths, depth)
		g.columns = append(g.columns, col)
		if col.Used > g.nvrt {
			g.nvrt = col.Used
		}
	}
	return g, nil
}

// IVcor identifies the vertical coordinate type: 1 for VQS grids.
func (g *Grid) IVcor() int { return 1 }

// NVrt returns the global level count.
func (g *Grid) NVrt() int { return g.nvrt }

// Len returns the node count.
func (g *Grid) Len() int { return len(g.columns) }

// Column returns node i's assigned column.
func (g *Grid) Column(i int) PerNodeLevels { return g.columns[i] }

// Depth returns node i's (clamped, non-negative) depth.
func (g *Grid) Depth(i int) float64 { return g.depths[i] }

// BottomIndices returns the 1-based bottom level index per node. A node
// using all nvrt levels has index 1; shallower nodes start higher up.
func (g *Grid) BottomIndices() []int {
	out := make([]int, len(g.columns))
	for i, c := range g.columns {
		out[i] = g.nvrt - c.Used + 1
	}
	return out
}

// TruncatedNodes returns the indices of nodes whose columns lost bottom
// levels to the minimum layer thickness.
func (g *Grid) TruncatedNodes() []int {
	var out []int
	for i, c := range g.columns {
		if c.Truncated {
			out = append(out, i)
		}
	}
	return out
}

// SigmaMatrix returns the nvrt x len rows of local sigma values, level 1
// first. Entries below a node's bottom are NaN.
func (g *Grid) SigmaMatrix() [][]float64 {
	rows := make([][]float64, g.nvrt)
	for l := range rows {
		rows[l] = make([]float64, len(g.columns))
		for i := range rows[l] {
			rows[l][i] = math.NaN()
		}
	}
	for i, c := range g.columns {
		bottom := g.nvrt - c.Used // 0-based bottom row
		for k, s := range c.Sigma(g.depths[i]) {
			rows[bottom+k][i] = s
		}
	}
	return rows
}
