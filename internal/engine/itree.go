package engine

import (
	"math"
	"math/rand/v2"
)

// eulerGamma is the Euler–Mascheroni constant used by the harmonic approximation.
const eulerGamma = 0.5772156649015329

// exactHarmonicLimit bounds the harmonic numbers that are summed directly.
const exactHarmonicLimit = 64

const leafNode int32 = -1

// itreeNode is one entry in a tree's node arena. Leaves have left == leafNode
// and record how many sample points ended in them.
type itreeNode struct {
	feature   int
	threshold float64
	left      int32
	right     int32
	size      int
}

// isolationTree is a randomised partitioning tree stored as a flat arena. The
// root is node 0. Nodes are owned by the tree and released with it.
type isolationTree struct {
	nodes []itreeNode
}

// buildTree grows a tree over the rows of data selected by sample. sample is
// reordered in place while partitioning.
func buildTree(data [][]float64, sample []int, maxDepth int, rng *rand.Rand) *isolationTree {
	t := &isolationTree{nodes: make([]itreeNode, 0, 2*len(sample))}
	t.grow(data, sample, 0, maxDepth, rng)
	return t
}

func (t *isolationTree) grow(data [][]float64, idx []int, depth, maxDepth int, rng *rand.Rand) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, itreeNode{left: leafNode, right: leafNode, size: len(idx)})
	if len(idx) <= 1 || depth >= maxDepth {
		return id
	}

	feature, lo, hi, ok := pickSplit(data, idx, rng)
	if !ok {
		return id
	}
	threshold := lo + rng.Float64()*(hi-lo)

	split := 0
	for j := range idx {
		if data[idx[j]][feature] < threshold {
			idx[split], idx[j] = idx[j], idx[split]
			split++
		}
	}

	left := t.grow(data, idx[:split], depth+1, maxDepth, rng)
	right := t.grow(data, idx[split:], depth+1, maxDepth, rng)

	// t.nodes may have been reallocated by the recursive calls.
	node := &t.nodes[id]
	node.feature = feature
	node.threshold = threshold
	node.left = left
	node.right = right
	return id
}

// pickSplit chooses a dimension uniformly among those with spread inside idx and
// returns its observed range. ok is false when every point in idx is identical.
func pickSplit(data [][]float64, idx []int, rng *rand.Rand) (feature int, lo, hi float64, ok bool) {
	dims := len(data[idx[0]])
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	copy(mins, data[idx[0]])
	copy(maxs, data[idx[0]])
	for _, i := range idx[1:] {
		for d, v := range data[i] {
			if v < mins[d] {
				mins[d] = v
			}
			if v > maxs[d] {
				maxs[d] = v
			}
		}
	}

	candidates := make([]int, 0, dims)
	for d := 0; d < dims; d++ {
		if maxs[d] > mins[d] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, 0, false
	}
	feature = candidates[rng.IntN(len(candidates))]
	return feature, mins[feature], maxs[feature], true
}

// pathLength returns the number of edges from the root to the leaf holding x,
// extended by the expected remaining depth of that leaf's partition.
func (t *isolationTree) pathLength(x []float64) float64 {
	id := int32(0)
	depth := 0
	for {
		node := t.nodes[id]
		if node.left == leafNode {
			return float64(depth) + averagePathLength(node.size)
		}
		if x[node.feature] < node.threshold {
			id = node.left
		} else {
			id = node.right
		}
		depth++
	}
}

// averagePathLength is c(n), the expected path length of an unsuccessful
// search among n points: 2H(n-1) - 2(n-1)/n, and 0 for n <= 1.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	m := float64(n - 1)
	return 2*harmonic(n-1) - 2*m/float64(n)
}

// harmonic returns H(i). Small values are summed exactly, larger ones use the
// asymptotic expansion ln(i) + γ + 1/2i - 1/12i².
func harmonic(i int) float64 {
	if i <= 0 {
		return 0
	}
	if i <= exactHarmonicLimit {
		sum := 0.0
		for k := 1; k <= i; k++ {
			sum += 1 / float64(k)
		}
		return sum
	}
	x := float64(i)
	return math.Log(x) + eulerGamma + 1/(2*x) - 1/(12*x*x)
}

// maxTreeDepth is ceil(log2(sampleSize)).
func maxTreeDepth(sampleSize int) int {
	if sampleSize <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(sampleSize))))
}
