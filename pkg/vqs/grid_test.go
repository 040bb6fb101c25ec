package vqs

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/oceanmesh/vgrid/pkg/errors"
	"github.com/oceanmesh/vgrid/pkg/mesh"
)

func testMesh() *mesh.Mesh {
	return mesh.New("channel", []mesh.Node{
		{ID: 1, Depth: 10},
		{ID: 2, Depth: 80},
		{ID: 3, Depth: 400},
		{ID: 4, Depth: -2}, // dry
	})
}

func TestBuild(t *testing.T) {
	g, err := Build(testMesh(), testTable(t), quadOpts())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", g.Len())
	}
	if g.IVcor() != 1 {
		t.Errorf("IVcor() = %d, want 1", g.IVcor())
	}

	// The deepest node drives the global level count.
	deep := g.Column(2)
	if g.NVrt() != deep.Used {
		t.Errorf("NVrt() = %d, want deepest column's %d", g.NVrt(), deep.Used)
	}

	bottoms := g.BottomIndices()
	for i, b := range bottoms {
		want := g.NVrt() - g.Column(i).Used + 1
		if b != want {
			t.Errorf("bottom index %d = %d, want %d", i, b, want)
		}
	}
	if bottoms[2] != 1 {
		t.Errorf("deepest node bottom index = %d, want 1", bottoms[2])
	}

	// Dry node clamps to zero depth and the shallowest anchor's count.
	dry := g.Column(3)
	if g.Depth(3) != 0 {
		t.Errorf("dry node depth = %g, want 0", g.Depth(3))
	}
	if dry.Requested != 10 {
		t.Errorf("dry node Requested = %d, want 10", dry.Requested)
	}
}

func TestBuildEmptyMesh(t *testing.T) {
	_, err := Build(mesh.New("empty", nil), testTable(t), quadOpts())
	if !errors.Is(err, errors.ErrCodeInvalidMesh) {
		t.Errorf("Build() error = %v, want INVALID_MESH", err)
	}
}

func TestSigmaMatrix(t *testing.T) {
	g, err := Build(testMesh(), testTable(t), quadOpts())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	rows := g.SigmaMatrix()
	if len(rows) != g.NVrt() {
		t.Fatalf("got %d rows, want nvrt=%d", len(rows), g.NVrt())
	}

	top := rows[g.NVrt()-1]
	for i, s := range top {
		if s != 0 {
			t.Errorf("surface sigma for node %d = %g, want 0", i, s)
		}
	}
	for i, b := range g.BottomIndices() {
		if got := rows[b-1][i]; got != -1 {
			t.Errorf("bottom sigma for node %d = %g, want -1", i, got)
		}
		if b > 1 && !math.IsNaN(rows[b-2][i]) {
			t.Errorf("below-bottom sigma for node %d = %g, want NaN", i, rows[b-2][i])
		}
	}
}

func TestWriteLayout(t *testing.T) {
	g, err := Build(testMesh(), testTable(t), quadOpts())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if want := 3 + g.NVrt(); len(lines) != want {
		t.Fatalf("got %d lines, want %d", len(lines), want)
	}
	if lines[0] != "           1" {
		t.Errorf("ivcor line = %q", lines[0])
	}
	// Deepest node: 400m interpolates to 25 levels between the 200m and
	// 1000m anchors.
	if got := strings.TrimSpace(lines[1]); got != "25" {
		t.Errorf("nvrt line = %q, want 25", lines[1])
	}
	if got := len(strings.Fields(lines[2])); got != g.Len() {
		t.Errorf("bottom index line has %d fields, want %d", got, g.Len())
	}
	// Below-bottom entries carry the -9.0 sentinel.
	if !strings.Contains(lines[3], "-9.000000") {
		t.Errorf("level 1 line missing -9.0 fill: %q", lines[3])
	}
	// The surface row is all zeros.
	surface := strings.Fields(lines[len(lines)-1])
	if surface[0] != "25" {
		t.Errorf("surface level number = %q, want 25", surface[0])
	}
	for _, v := range surface[1:] {
		if v != "0.000000" {
			t.Errorf("surface sigma = %q, want 0.000000", v)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	g, err := Build(testMesh(), testTable(t), quadOpts())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	nvrt, counts, err := ReadLevelCounts(&buf)
	if err != nil {
		t.Fatalf("ReadLevelCounts() error: %v", err)
	}
	if nvrt != g.NVrt() {
		t.Errorf("nvrt = %d, want %d", nvrt, g.NVrt())
	}
	if len(counts) != g.Len() {
		t.Fatalf("got %d counts, want %d", len(counts), g.Len())
	}
	for i, n := range counts {
		if n != g.Column(i).Used {
			t.Errorf("node %d count = %d, want %d", i, n, g.Column(i).Used)
		}
	}
}

func TestReadLevelCountsRejectsOtherIVcor(t *testing.T) {
	input := "2\n10\n"
	_, _, err := ReadLevelCounts(strings.NewReader(input))
	if !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("error = %v, want INVALID_GRID", err)
	}
}

func TestExtractTable(t *testing.T) {
	m := testMesh()
	tbl := testTable(t)
	g, err := Build(m, tbl, quadOpts())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	counts := make(LevelCounts, g.Len())
	for i := range counts {
		counts[i] = g.Column(i).Used
	}

	got, err := ExtractTable(m, counts)
	if err != nil {
		t.Fatalf("ExtractTable() error: %v", err)
	}
	// One anchor per distinct wet level count, at that count's deepest node.
	want := map[int]float64{10: 10, 12: 80, 25: 400}
	if got.Len() != len(want) {
		t.Fatalf("got %d anchors, want %d: %+v", got.Len(), len(want), got.Anchors())
	}
	for _, a := range got.Anchors() {
		if want[a.Levels] != a.Depth {
			t.Errorf("anchor %+v, want depth %g for %d levels", a, want[a.Levels], a.Levels)
		}
	}
}

func TestExtractTableArityMismatch(t *testing.T) {
	_, err := ExtractTable(testMesh(), LevelCounts{5})
	if !errors.Is(err, errors.ErrCodeArityMismatch) {
		t.Errorf("error = %v, want ARITY_MISMATCH", err)
	}
}
