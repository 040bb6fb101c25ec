package mastergrid

import (
	"math"
	"sort"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// KMeansSpec parameterizes the clustering table builder.
type KMeansSpec struct {
	// Clusters is the number of anchors to derive. Must be >= 1 and no
	// larger than the number of distinct mesh depths.
	Clusters int
	// ShallowLevels is the level count of the shallowest cluster. Must be >= 2.
	ShallowLevels int
	// MaxLevels caps the level count of the deepest cluster.
	// Zero means ShallowLevels + Clusters - 1.
	MaxLevels int
}

// kmeansMaxIterations caps Lloyd's algorithm; 1-D clustering converges in
// far fewer passes on realistic bathymetry.
const kmeansMaxIterations = 100

// BuildKMeans partitions the mesh depth distribution into K clusters with
// 1-D Lloyd's algorithm and derives one anchor per cluster: the anchor depth
// is the cluster centroid and the level counts grow linearly with cluster
// depth rank from ShallowLevels to MaxLevels, so the resulting table is
// monotonic by construction.
func BuildKMeans(meshDepths []float64, spec KMeansSpec) (*Table, error) {
	if spec.Clusters < 1 {
		return nil, errors.New(errors.ErrCodeClusteringError, "cluster count must be >= 1, got %d", spec.Clusters)
	}
	if spec.ShallowLevels < 2 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "shallow levels must be >= 2, got %d", spec.ShallowLevels)
	}
	maxLevels := spec.MaxLevels
	if maxLevels == 0 {
		maxLevels = spec.ShallowLevels + spec.Clusters - 1
	}
	if maxLevels < spec.ShallowLevels {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"max levels (%d) must be >= shallow levels (%d)", maxLevels, spec.ShallowLevels)
	}

	depths := distinctPositive(meshDepths)
	if len(depths) < spec.Clusters {
		return nil, errors.New(errors.ErrCodeClusteringError,
			"cluster count %d exceeds the %d distinct wet depths", spec.Clusters, len(depths))
	}

	centers, err := lloyd1D(depths, spec.Clusters)
	if err != nil {
		return nil, err
	}

	anchors := make([]Anchor, len(centers))
	for i, c := range centers {
		anchors[i] = Anchor{Depth: c, Levels: clusterLevels(i, len(centers), spec.ShallowLevels, maxLevels)}
	}
	return New(anchors)
}

// clusterLevels maps a cluster's depth rank to a level count, linear from
// shallow to max, rounded.
func clusterLevels(rank, clusters, shallow, max int) int {
	if clusters == 1 {
		return max
	}
	frac := float64(rank) / float64(clusters-1)
	n := shallow + int(math.Round(frac*float64(max-shallow)))
	if n < shallow {
		n = shallow
	}
	if n > max {
		n = max
	}
	return n
}

// lloyd1D runs Lloyd's algorithm on sorted 1-D data with quantile seeding.
// The returned centers are strictly ascending.
func lloyd1D(sorted []float64, k int) ([]float64, error) {
	centers := make([]float64, k)
	for i := range centers {
		// Seed at the midpoint of each cluster's share of the sorted data.
		// len(sorted) >= k, so consecutive seeds land on distinct indices.
		idx := int(float64(len(sorted)) * (float64(i) + 0.5) / float64(k))
		if idx > len(sorted)-1 {
			idx = len(sorted) - 1
		}
		centers[i] = sorted[idx]
	}

	assign := make([]int, len(sorted))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		// Data and centers are both sorted, so assignment is a single
		// forward sweep.
		c := 0
		for i, d := range sorted {
			for c+1 < k && math.Abs(centers[c+1]-d) < math.Abs(centers[c]-d) {
				c++
			}
			if assign[i] != c {
				assign[i] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		sums := make([]float64, k)
		counts := make([]int, k)
		for i, d := range sorted {
			sums[assign[i]] += d
			counts[assign[i]]++
		}
		for j := range centers {
			if counts[j] > 0 {
				centers[j] = sums[j] / float64(counts[j])
			}
			// An empty cluster keeps its seed position.
		}
		sort.Float64s(centers)
	}

	for i := 1; i < k; i++ {
		if centers[i]-centers[i-1] <= depthTolerance {
			return nil, errors.New(errors.ErrCodeClusteringError,
				"clusters %d and %d collapsed to depth %g; reduce the cluster count", i-1, i, centers[i])
		}
	}
	return centers, nil
}

// distinctPositive returns the sorted distinct wet (positive) depths.
func distinctPositive(depths []float64) []float64 {
	out := make([]float64, 0, len(depths))
	for _, d := range depths {
		if d > 0 {
			out = append(out, d)
		}
	}
	sort.Float64s(out)
	dedup := out[:0]
	for i, d := range out {
		if i == 0 || d-dedup[len(dedup)-1] > depthTolerance {
			dedup = append(dedup, d)
		}
	}
	return dedup
}
