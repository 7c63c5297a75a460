package engine

import (
	"math/rand"
	"sort"

	"spendcast/internal/model"
)

// Forest hyperparameters, matched to the reference regressor configuration.
const (
	forestTrees    = 100
	forestMaxDepth = 10
	forestMinSplit = 2
	forestSeed     = 42
)

// trainForest fits a bagged ensemble of regression trees. Each tree trains
// on a bootstrap sample; prediction averages the trees.
func trainForest(features [][]float64, labels []float64) *model.ForestModel {
	rng := rand.New(rand.NewSource(forestSeed))
	n := len(labels)
	trees := make([]*model.TreeNode, forestTrees)
	for t := 0; t < forestTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		trees[t] = growTree(features, labels, sample, 0)
	}
	return &model.ForestModel{Trees: trees}
}

func growTree(features [][]float64, labels []float64, idx []int, depth int) *model.TreeNode {
	if depth >= forestMaxDepth || len(idx) < forestMinSplit || pureLabels(labels, idx) {
		return &model.TreeNode{Leaf: true, Value: meanAt(labels, idx)}
	}
	feature, threshold, ok := bestSplit(features, labels, idx)
	if !ok {
		return &model.TreeNode{Leaf: true, Value: meanAt(labels, idx)}
	}
	var left, right []int
	for _, i := range idx {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &model.TreeNode{Leaf: true, Value: meanAt(labels, idx)}
	}
	return &model.TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(features, labels, left, depth+1),
		Right:     growTree(features, labels, right, depth+1),
	}
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two halves.
func bestSplit(features [][]float64, labels []float64, idx []int) (feature int, threshold float64, ok bool) {
	bestSSE := sseAt(labels, idx)
	width := len(features[idx[0]])
	order := make([]int, len(idx))

	for f := 0; f < width; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return features[order[a]][f] < features[order[b]][f]
		})

		// Prefix sums over the sorted order let each candidate split be
		// scored in constant time.
		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += labels[i]
			totalSq += labels[i] * labels[i]
		}
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += labels[i]
			leftSq += labels[i] * labels[i]
			if features[order[k]][f] == features[order[k+1]][f] {
				continue
			}
			nl := float64(k + 1)
			nr := float64(len(order) - k - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				feature = f
				threshold = (features[order[k]][f] + features[order[k+1]][f]) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func predictForest(fm *model.ForestModel, features []float64) float64 {
	if len(fm.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, tree := range fm.Trees {
		sum += predictTree(tree, features)
	}
	return sum / float64(len(fm.Trees))
}

func predictTree(n *model.TreeNode, features []float64) float64 {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func meanAt(labels []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += labels[i]
	}
	return sum / float64(len(idx))
}

func sseAt(labels []float64, idx []int) float64 {
	m := meanAt(labels, idx)
	var sse float64
	for _, i := range idx {
		d := labels[i] - m
		sse += d * d
	}
	return sse
}

func pureLabels(labels []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if labels[i] != labels[idx[0]] {
			return false
		}
	}
	return true
}
