package classifier

import (
	"math/rand/v2"
	"sort"
)

// leaf marks a node without children.
const leaf = -1

// Node is one decision tree node. Leaves carry the class distribution of
// the training samples that reached them.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a CART classification tree stored as a flat node list rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// proba walks x down to a leaf and returns its class distribution.
func (t *Tree) proba(x []float64) []float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Feature == leaf {
			return node.Value
		}

		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// depth returns the depth of the deepest leaf.
func (t *Tree) depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		node := t.Nodes[i]
		if node.Feature == leaf {
			return 0
		}

		return 1 + max(walk(node.Left), walk(node.Right))
	}

	if len(t.Nodes) == 0 {
		return 0
	}

	return walk(0)
}

// treeBuilder grows one tree on a bootstrap sample.
type treeBuilder struct {
	X               [][]float64
	y               []int
	classes         int
	maxFeatures     int
	maxDepth        int
	minSamplesSplit int
	rng             *rand.Rand
	nodes           []Node
}

func (b *treeBuilder) build(samples []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(samples, 0)

	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) grow(samples []int, depth int) int {
	counts := b.count(samples)
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leaf})

	if b.pure(counts) || len(samples) < b.minSamplesSplit || (b.maxDepth > 0 && depth >= b.maxDepth) {
		b.nodes[id].Value = normalize(counts)

		return id
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		b.nodes[id].Value = normalize(counts)

		return id
	}

	var left, right []int
	for _, s := range samples {
		if b.X[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[id] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r}

	return id
}

// bestSplit searches a random subset of features for the threshold with the
// lowest weighted Gini impurity. ok is false when no split improves on the parent.
func (b *treeBuilder) bestSplit(samples []int, counts []float64) (int, float64, bool) {
	n := float64(len(samples))
	bestScore := gini(counts, n)
	bestFeature, bestThreshold := -1, 0.0

	width := len(b.X[0])
	features := b.rng.Perm(width)[:min(b.maxFeatures, width)]

	sorted := make([]int, len(samples))
	left := make([]float64, b.classes)
	right := make([]float64, b.classes)

	for _, f := range features {
		copy(sorted, samples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		clear(left)
		copy(right, counts)

		for j := 0; j < len(sorted)-1; j++ {
			c := b.y[sorted[j]]
			left[c]++
			right[c]--

			v, next := b.X[sorted[j]][f], b.X[sorted[j+1]][f]
			if v == next {
				continue
			}

			nl := float64(j + 1)
			nr := n - nl
			score := (nl*gini(left, nl) + nr*gini(right, nr)) / n

			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = f

				bestThreshold = v + (next-v)/2
				if bestThreshold >= next {
					bestThreshold = v
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) count(samples []int) []float64 {
	counts := make([]float64, b.classes)
	for _, s := range samples {
		counts[b.y[s]]++
	}

	return counts
}

func (b *treeBuilder) pure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}

	return nonZero <= 1
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range counts {
		p := c / n
		sum += p * p
	}

	return 1 - sum
}

func normalize(counts []float64) []float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}

	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}

	for i, c := range counts {
		out[i] = c / total
	}

	return out
}
