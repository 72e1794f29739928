// internal/ml/forest.go
package ml

import (
	"math/rand"
)

// Classifier hyperparameters. These are configuration, not runtime-varying
// logic; retraining with different values produces a new bundle.
const (
	EstimatorCount = 200
	RandomSeed     = 42
	maxTreeDepth   = 12
	minLeafSize    = 2
)

// forest is a bagged ensemble of CART trees voting by majority.
type forest struct {
	Trees      []*decisionTree `json:"trees"`
	ClassCount int             `json:"class_count"`
}

// trainForest fits EstimatorCount trees on bootstrap samples of the training
// rows. The seed makes training deterministic for a given dataset.
func trainForest(features [][]float64, labels []int, classCount int, seed int64) *forest {
	f := &forest{
		Trees:      make([]*decisionTree, 0, EstimatorCount),
		ClassCount: classCount,
	}

	cfg := treeConfig{maxDepth: maxTreeDepth, minLeafSize: minLeafSize}
	n := len(features)

	for t := 0; t < EstimatorCount; t++ {
		rng := rand.New(rand.NewSource(seed + int64(t)))
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, growTree(features, labels, classCount, idx, cfg, rng))
	}

	return f
}

// predict returns the majority class over all trees; ties resolve to the
// lowest class code so repeated predictions on the same input are identical.
func (f *forest) predict(x []float64) int {
	votes := make([]int, f.ClassCount)
	for _, t := range f.Trees {
		votes[t.predict(x)]++
	}
	return argmax(votes)
}
