package mastergrid

import (
	"math"
	"testing"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// syntheticBathymetry returns n depths in [1, 8000], quadratically biased
// toward shallow water the way coastal meshes are.
func syntheticBathymetry(n int) []float64 {
	depths := make([]float64, n)
	for i := range depths {
		f := float64(i) / float64(n-1)
		depths[i] = 1 + 7999*f*f
	}
	return depths
}

func TestBuildKMeans(t *testing.T) {
	depths := syntheticBathymetry(500)

	tbl, err := BuildKMeans(depths, KMeansSpec{Clusters: 60, ShallowLevels: 10, MaxLevels: 50})
	if err != nil {
		t.Fatalf("BuildKMeans() error: %v", err)
	}
	anchors := tbl.Anchors()
	if len(anchors) != 60 {
		t.Fatalf("got %d anchors, want 60", len(anchors))
	}
	for i, a := range anchors {
		if a.Depth < 1 || a.Depth > 8000 {
			t.Errorf("anchor %d depth %g outside the data range", i, a.Depth)
		}
		if i == 0 {
			continue
		}
		if a.Depth <= anchors[i-1].Depth {
			t.Errorf("anchor depths not ascending at %d: %g <= %g", i, a.Depth, anchors[i-1].Depth)
		}
		if a.Levels < anchors[i-1].Levels {
			t.Errorf("anchor levels decrease at %d: %d < %d", i, a.Levels, anchors[i-1].Levels)
		}
	}
	if anchors[0].Levels != 10 {
		t.Errorf("shallowest anchor levels = %d, want 10", anchors[0].Levels)
	}
	if anchors[len(anchors)-1].Levels != 50 {
		t.Errorf("deepest anchor levels = %d, want 50", anchors[len(anchors)-1].Levels)
	}
}

func TestBuildKMeansDenseClustering(t *testing.T) {
	// Cluster counts close to the distinct depth count must still build;
	// the K = len(depths) limit case yields one anchor per depth.
	tests := []struct {
		name     string
		depths   []float64
		clusters int
	}{
		{name: "MoreThanHalf", depths: syntheticBathymetry(100), clusters: 60},
		{name: "OnePerDepth", depths: []float64{5, 10, 20, 40, 80}, clusters: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := BuildKMeans(tt.depths, KMeansSpec{Clusters: tt.clusters, ShallowLevels: 10, MaxLevels: 50})
			if err != nil {
				t.Fatalf("BuildKMeans() error: %v", err)
			}
			if tbl.Len() != tt.clusters {
				t.Fatalf("got %d anchors, want %d", tbl.Len(), tt.clusters)
			}
		})
	}
}

func TestBuildKMeansIgnoresDryNodes(t *testing.T) {
	depths := []float64{-2, 0, 5, 5, 20, 80, 320}

	tbl, err := BuildKMeans(depths, KMeansSpec{Clusters: 4, ShallowLevels: 5, MaxLevels: 20})
	if err != nil {
		t.Fatalf("BuildKMeans() error: %v", err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("got %d anchors, want 4", tbl.Len())
	}
	for _, a := range tbl.Anchors() {
		if a.Depth <= 0 {
			t.Errorf("dry depth %g leaked into the table", a.Depth)
		}
	}
}

func TestBuildKMeansErrors(t *testing.T) {
	tests := []struct {
		name     string
		depths   []float64
		spec     KMeansSpec
		wantCode errors.Code
	}{
		{
			name:     "ZeroClusters",
			depths:   []float64{10, 100},
			spec:     KMeansSpec{Clusters: 0, ShallowLevels: 5},
			wantCode: errors.ErrCodeClusteringError,
		},
		{
			name:     "MoreClustersThanDepths",
			depths:   []float64{10, 100, 100},
			spec:     KMeansSpec{Clusters: 3, ShallowLevels: 5},
			wantCode: errors.ErrCodeClusteringError,
		},
		{
			name:     "TooFewShallowLevels",
			depths:   []float64{10, 100, 500},
			spec:     KMeansSpec{Clusters: 2, ShallowLevels: 1},
			wantCode: errors.ErrCodeInvalidSpec,
		},
		{
			name:     "MaxBelowShallow",
			depths:   []float64{10, 100, 500},
			spec:     KMeansSpec{Clusters: 2, ShallowLevels: 10, MaxLevels: 5},
			wantCode: errors.ErrCodeInvalidSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildKMeans(tt.depths, tt.spec)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("BuildKMeans() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLloyd1DCentersAreMeans(t *testing.T) {
	data := []float64{1, 2, 3, 100, 101, 102}

	centers, err := lloyd1D(data, 2)
	if err != nil {
		t.Fatalf("lloyd1D() error: %v", err)
	}
	if len(centers) != 2 {
		t.Fatalf("got %d centers, want 2", len(centers))
	}
	if math.Abs(centers[0]-2) > 1e-9 {
		t.Errorf("centers[0] = %g, want 2", centers[0])
	}
	if math.Abs(centers[1]-101) > 1e-9 {
		t.Errorf("centers[1] = %g, want 101", centers[1])
	}
}
