package engine

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

const (
	// DefaultTrees is the ensemble size.
	DefaultTrees = 100
	// DefaultSampleSize caps the per-tree subsample.
	DefaultSampleSize = 256
	// DefaultSeed makes runs reproducible unless overridden.
	DefaultSeed uint64 = 42

	// degenerateScore is assigned to every point when the population cannot be partitioned.
	degenerateScore = 0.5
)

// Scored is the detector verdict for one input row.
type Scored struct {
	Score float64
	Label models.Label
}

// IsAnomaly reports whether the row was labelled anomalous.
func (s Scored) IsAnomaly() bool {
	return s.Label == models.LabelAnomaly
}

// IsolationForest scores rows by how quickly random axis-aligned splits isolate them.
type IsolationForest struct {
	trees      int
	sampleSize int
	seed       uint64
	workers    int
}

// Option configures an IsolationForest.
type Option func(*IsolationForest)

// WithTrees sets the number of trees in the ensemble.
func WithTrees(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.trees = n
		}
	}
}

// WithSampleSize sets the maximum subsample drawn for each tree.
func WithSampleSize(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.sampleSize = n
		}
	}
}

// WithSeed sets the base seed. Tree i draws from a stream derived from (seed, i).
func WithSeed(seed uint64) Option {
	return func(f *IsolationForest) {
		f.seed = seed
	}
}

// WithWorkers bounds how many goroutines build and score trees. Results do not
// depend on this value.
func WithWorkers(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.workers = n
		}
	}
}

// NewIsolationForest constructs a detector with defaults overridden by opts.
func NewIsolationForest(opts ...Option) *IsolationForest {
	f := &IsolationForest{
		trees:      DefaultTrees,
		sampleSize: DefaultSampleSize,
		seed:       DefaultSeed,
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Detect scores every row and labels the top contamination fraction as anomalous.
// The output is aligned with data. An empty input yields nil.
func (f *IsolationForest) Detect(data [][]float64, contamination float64) []Scored {
	if len(data) == 0 {
		return nil
	}

	scores := f.Scores(data)
	labels := LabelTopFraction(scores, contamination)

	out := make([]Scored, len(data))
	for i := range data {
		out[i] = Scored{Score: scores[i], Label: labels[i]}
	}
	return out
}

// Scores returns s(x) = 2^(-E[h(x)]/c(ψ)) for every row, where ψ is the
// per-tree subsample size. Scores lie in (0, 1]; higher means easier to isolate.
func (f *IsolationForest) Scores(data [][]float64) []float64 {
	n := len(data)
	scores := make([]float64, n)
	if n < 2 || allIdentical(data) {
		for i := range scores {
			scores[i] = degenerateScore
		}
		return scores
	}

	psi := min(f.sampleSize, n)
	trees := f.fit(data, psi)

	norm := averagePathLength(psi)
	if norm <= 0 {
		norm = 1
	}

	var g errgroup.Group
	g.SetLimit(f.workers)
	chunk := (n + f.workers - 1) / f.workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				total := 0.0
				for _, tree := range trees {
					total += tree.pathLength(data[i])
				}
				mean := total / float64(len(trees))
				scores[i] = math.Exp2(-mean / norm)
			}
			return nil
		})
	}
	_ = g.Wait()

	return scores
}

// fit builds the ensemble. Each tree is written to its own slot, so workers
// share no mutable state.
func (f *IsolationForest) fit(data [][]float64, psi int) []*isolationTree {
	maxDepth := maxTreeDepth(psi)
	trees := make([]*isolationTree, f.trees)

	var g errgroup.Group
	g.SetLimit(f.workers)
	for t := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(f.seed, uint64(t)))
			sample := subsample(len(data), psi, rng)
			trees[t] = buildTree(data, sample, maxDepth, rng)
			return nil
		})
	}
	_ = g.Wait()

	return trees
}

// subsample draws size distinct row indices out of n with a partial Fisher-Yates shuffle.
func subsample(n, size int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < size; i++ {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:size]
}

func allIdentical(data [][]float64) bool {
	first := data[0]
	for _, row := range data[1:] {
		for d, v := range row {
			if v != first[d] {
				return false
			}
		}
	}
	return true
}

// LabelTopFraction marks the round(contamination*n) highest scores as anomalous.
// Ties keep input order, so equal scores are flagged front to back.
func LabelTopFraction(scores []float64, contamination float64) []models.Label {
	n := len(scores)
	labels := make([]models.Label, n)

	k := int(math.Round(contamination * float64(n)))
	if k <= 0 {
		return labels
	}
	if k > n {
		k = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for _, i := range order[:k] {
		labels[i] = models.LabelAnomaly
	}
	return labels
}
