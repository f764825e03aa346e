package index

import (
	"container/heap"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/embedding"
)

const (
	// DefaultTrees is the number of projection trees built when none is configured.
	DefaultTrees    = 10
	defaultLeafSize = 16
	angularSeed     = 0x5eed
)

// Neighbor is a position returned by an approximate query with its
// approximate cosine similarity.
type Neighbor struct {
	Position   int
	Similarity float64
}

// Angular is an approximate nearest-neighbor index over unit vectors built
// from random hyperplane trees. Construction is seeded and deterministic.
type Angular struct {
	vecs     [][]float64
	roots    []*treeNode
	leafSize int
}

type treeNode struct {
	normal      []float64
	left, right *treeNode
	items       []int
}

// NewAngular builds trees over vecs. A non-positive trees value selects DefaultTrees.
func NewAngular(vecs [][]float64, trees int) *Angular {
	if trees <= 0 {
		trees = DefaultTrees
	}
	a := &Angular{vecs: vecs, leafSize: defaultLeafSize}
	rng := rand.New(rand.NewPCG(angularSeed, uint64(len(vecs))))

	all := make([]int, len(vecs))
	for i := range all {
		all[i] = i
	}
	for t := 0; t < trees && len(vecs) > 0; t++ {
		items := make([]int, len(all))
		copy(items, all)
		a.roots = append(a.roots, a.build(items, rng))
	}
	return a
}

func (a *Angular) build(items []int, rng *rand.Rand) *treeNode {
	if len(items) <= a.leafSize {
		return &treeNode{items: items}
	}

	i := items[rng.IntN(len(items))]
	j := items[rng.IntN(len(items))]
	normal := make([]float64, len(a.vecs[i]))
	for k := range normal {
		normal[k] = a.vecs[i][k] - a.vecs[j][k]
	}

	var left, right []int
	if embedding.Norm(normal) > 0 {
		for _, it := range items {
			if embedding.Dot(normal, a.vecs[it]) >= 0 {
				right = append(right, it)
			} else {
				left = append(left, it)
			}
		}
	}
	// Degenerate split (duplicates or i == j): halve at random.
	if len(left) == 0 || len(right) == 0 {
		rng.Shuffle(len(items), func(x, y int) { items[x], items[y] = items[y], items[x] })
		mid := len(items) / 2
		left, right = items[:mid], items[mid:]
		normal = nil
	}

	return &treeNode{
		normal: normal,
		left:   a.build(left, rng),
		right:  a.build(right, rng),
	}
}

// Nearest returns up to n neighbors of q ordered by similarity descending.
// Similarity is derived from angular distance d as 1 - d²/2.
func (a *Angular) Nearest(q []float64, n int) []Neighbor {
	if n <= 0 || len(a.vecs) == 0 {
		return []Neighbor{}
	}
	n = min(n, len(a.vecs))

	candidates := a.candidates(q, n*len(a.roots))
	if len(candidates) < n {
		candidates = make(map[int]struct{}, len(a.vecs))
		for i := range a.vecs {
			candidates[i] = struct{}{}
		}
	}

	out := make([]Neighbor, 0, len(candidates))
	for pos := range candidates {
		out = append(out, Neighbor{Position: pos, Similarity: angularSimilarity(q, a.vecs[pos])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Position < out[j].Position
	})
	return out[:n]
}

// candidates walks all trees best-first by hyperplane margin until searchK
// items have been collected or every leaf has been visited.
func (a *Angular) candidates(q []float64, searchK int) map[int]struct{} {
	pq := &nodeQueue{}
	for _, r := range a.roots {
		heap.Push(pq, queued{node: r, priority: math.Inf(1)})
	}

	seen := make(map[int]struct{})
	for pq.Len() > 0 && len(seen) < searchK {
		cur := heap.Pop(pq).(queued)
		nd := cur.node
		if nd.left == nil {
			for _, it := range nd.items {
				seen[it] = struct{}{}
			}
			continue
		}
		margin := 0.0
		if nd.normal != nil {
			margin = embedding.Dot(nd.normal, q)
		}
		heap.Push(pq, queued{node: nd.right, priority: math.Min(cur.priority, margin)})
		heap.Push(pq, queued{node: nd.left, priority: math.Min(cur.priority, -margin)})
	}
	return seen
}

// angularSimilarity converts the Euclidean distance between unit vectors to
// cosine similarity.
func angularSimilarity(q, v []float64) float64 {
	var d2 float64
	for k := range v {
		diff := q[k] - v[k]
		d2 += diff * diff
	}
	return 1 - d2/2
}

func (a *Angular) Len() int { return len(a.vecs) }

type queued struct {
	node     *treeNode
	priority float64
}

type nodeQueue []queued

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].priority > q[j].priority }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)        { *q = append(*q, x.(queued)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
