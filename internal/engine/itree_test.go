package engine

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestAveragePathLength(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{n: 0, want: 0},
		{n: 1, want: 0},
		{n: 2, want: 1},
		{n: 3, want: 3 - 4.0/3},
		{n: 4, want: 2*(1+0.5+1.0/3) - 1.5},
	}
	for _, tt := range tests {
		if got := averagePathLength(tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("c(%d): expected %v, got %v", tt.n, tt.want, got)
		}
	}
}

func TestHarmonicApproximationIsContinuous(t *testing.T) {
	exact := 0.0
	for k := 1; k <= exactHarmonicLimit+1; k++ {
		exact += 1 / float64(k)
	}
	if got := harmonic(exactHarmonicLimit + 1); math.Abs(got-exact) > 1e-8 {
		t.Fatalf("expected H(%d)≈%v, got %v", exactHarmonicLimit+1, exact, got)
	}
}

func TestMaxTreeDepth(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 6: 3, 100: 7, 256: 8}
	for size, want := range cases {
		if got := maxTreeDepth(size); got != want {
			t.Fatalf("maxTreeDepth(%d): expected %d, got %d", size, want, got)
		}
	}
}

func TestBuildTreeLeavesCoverSample(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	data := make([][]float64, 50)
	for i := range data {
		data[i] = []float64{float64(i % 4), float64(i * 3)}
	}
	sample := subsample(len(data), 32, rng)

	tree := buildTree(data, sample, maxTreeDepth(32), rng)

	total := 0
	for _, node := range tree.nodes {
		if node.left == leafNode {
			total += node.size
			continue
		}
		if node.left <= 0 || node.right <= 0 || int(node.left) >= len(tree.nodes) || int(node.right) >= len(tree.nodes) {
			t.Fatalf("internal node has invalid children %+v", node)
		}
	}
	if total != 32 {
		t.Fatalf("expected leaves to hold 32 points, got %d", total)
	}
}

func TestBuildTreeIdenticalPointsIsSingleLeaf(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	data := [][]float64{{1, 5}, {1, 5}, {1, 5}}

	tree := buildTree(data, []int{0, 1, 2}, maxTreeDepth(3), rng)
	if len(tree.nodes) != 1 {
		t.Fatalf("expected a single leaf, got %d nodes", len(tree.nodes))
	}
	if got, want := tree.pathLength([]float64{1, 5}), averagePathLength(3); got != want {
		t.Fatalf("expected path length %v, got %v", want, got)
	}
}

func TestPathLengthIsolatesOutlierEarly(t *testing.T) {
	data := make([][]float64, 0, 64)
	for i := 0; i < 63; i++ {
		data = append(data, []float64{1, 20 + float64(i%5)})
	}
	data = append(data, []float64{4, 400})

	outlier, inlier := 0.0, 0.0
	for seed := uint64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, 0))
		sample := subsample(len(data), len(data), rng)
		tree := buildTree(data, sample, maxTreeDepth(len(data)), rng)
		outlier += tree.pathLength(data[63])
		inlier += tree.pathLength(data[0])
	}
	if outlier >= inlier {
		t.Fatalf("expected outlier to have shorter mean path, got outlier=%v inlier=%v", outlier/50, inlier/50)
	}
}

func TestSubsampleDistinct(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	idx := subsample(100, 40, rng)
	if len(idx) != 40 {
		t.Fatalf("expected 40 indices, got %d", len(idx))
	}
	seen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if i < 0 || i >= 100 {
			t.Fatalf("index %d out of range", i)
		}
		if _, dup := seen[i]; dup {
			t.Fatalf("duplicate index %d", i)
		}
		seen[i] = struct{}{}
	}
}
