// internal/ml/tree.go
package ml

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted CART tree, stored flat so the whole tree
// marshals to JSON without pointer chasing.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Class     int     `json:"c"`
	Leaf      bool    `json:"leaf"`
}

type decisionTree struct {
	Nodes []treeNode `json:"nodes"`
}

type treeConfig struct {
	maxDepth    int
	minLeafSize int
	// number of features sampled per split; 0 means sqrt of the feature count
	featureSample int
}

// growTree fits a classification tree on the rows indexed by idx, splitting
// on Gini impurity.
func growTree(features [][]float64, labels []int, classCount int, idx []int, cfg treeConfig, rng *rand.Rand) *decisionTree {
	t := &decisionTree{}
	t.grow(features, labels, classCount, idx, 0, cfg, rng)
	return t
}

// grow appends a subtree for idx and returns its root node index.
func (t *decisionTree) grow(features [][]float64, labels []int, classCount int, idx []int, depth int, cfg treeConfig, rng *rand.Rand) int {
	counts := make([]int, classCount)
	for _, i := range idx {
		counts[labels[i]]++
	}
	majority := argmax(counts)

	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeafSize || pure(counts) {
		return t.leaf(majority)
	}

	feature, threshold, ok := bestSplit(features, labels, classCount, idx, cfg, rng)
	if !ok {
		return t.leaf(majority)
	}

	var left, right []int
	for _, i := range idx {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minLeafSize || len(right) < cfg.minLeafSize {
		return t.leaf(majority)
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: feature, Threshold: threshold})
	l := t.grow(features, labels, classCount, left, depth+1, cfg, rng)
	r := t.grow(features, labels, classCount, right, depth+1, cfg, rng)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

func (t *decisionTree) leaf(class int) int {
	t.Nodes = append(t.Nodes, treeNode{Leaf: true, Class: class})
	return len(t.Nodes) - 1
}

// predict walks the tree from node 0 for a single feature vector.
func (t *decisionTree) predict(x []float64) int {
	if len(t.Nodes) == 0 {
		return 0
	}
	n := 0
	for {
		node := t.Nodes[n]
		if node.Leaf {
			return node.Class
		}
		if x[node.Feature] <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
	}
}

// bestSplit searches a random feature subset for the split with the lowest
// weighted Gini impurity.
func bestSplit(features [][]float64, labels []int, classCount int, idx []int, cfg treeConfig, rng *rand.Rand) (int, float64, bool) {
	featureCount := len(features[idx[0]])
	sample := cfg.featureSample
	if sample <= 0 {
		sample = int(math.Ceil(math.Sqrt(float64(featureCount))))
	}
	if sample > featureCount {
		sample = featureCount
	}

	candidates := rng.Perm(featureCount)[:sample]

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, 0, len(idx))
	for _, feature := range candidates {
		values = values[:0]
		for _, i := range idx {
			values = append(values, features[i][feature])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			threshold := (values[k] + values[k-1]) / 2
			g := splitGini(features, labels, classCount, idx, feature, threshold)
			if g < bestGini {
				bestGini = g
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// splitGini computes the size-weighted Gini impurity of a candidate split.
func splitGini(features [][]float64, labels []int, classCount int, idx []int, feature int, threshold float64) float64 {
	leftCounts := make([]int, classCount)
	rightCounts := make([]int, classCount)
	leftTotal, rightTotal := 0, 0

	for _, i := range idx {
		if features[i][feature] <= threshold {
			leftCounts[labels[i]]++
			leftTotal++
		} else {
			rightCounts[labels[i]]++
			rightTotal++
		}
	}

	total := float64(leftTotal + rightTotal)
	return float64(leftTotal)/total*gini(leftCounts, leftTotal) +
		float64(rightTotal)/total*gini(rightCounts, rightTotal)
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
